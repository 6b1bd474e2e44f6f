package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/week"
)

// SessionLister provides the full session read aggregates are computed from.
type SessionLister interface {
	ListAll(ctx context.Context) ([]session.Session, error)
}

// Service computes weekly aggregates. Nothing is cached; every call reads
// the full session set so results are never stale after a write.
type Service struct {
	sessions SessionLister
	calendar week.Calendar
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a new summary service.
func NewService(sessions SessionLister, calendar week.Calendar, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{sessions: sessions, calendar: calendar, now: time.Now, logger: logger}
}

// WithClock overrides the clock used for the current week.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Calendar returns the week calendar used for labels.
func (s *Service) Calendar() week.Calendar {
	return s.calendar
}

// Week returns the totals for the week containing t.
func (s *Service) Week(ctx context.Context, t time.Time) (Totals, error) {
	all, err := s.sessions.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load sessions for week", "week_start", s.calendar.Start(t), "error", err)
		return Totals{}, fmt.Errorf("loading sessions: %w", err)
	}
	start := s.calendar.Start(t)
	totals := Aggregate(all, start)
	totals.Label = s.calendar.Label(start)
	return totals, nil
}

// Current returns the totals for the week containing now.
func (s *Service) Current(ctx context.Context) (Totals, error) {
	return s.Week(ctx, s.now())
}

// Offset returns the totals for the week n weeks away from the current one.
func (s *Service) Offset(ctx context.Context, n int) (Totals, error) {
	return s.Week(ctx, s.calendar.Shift(s.calendar.Current(s.now()), n))
}

// History returns totals for every week that has sessions, newest first.
// A positive limit truncates the list.
func (s *Service) History(ctx context.Context, limit int) ([]Totals, error) {
	all, err := s.sessions.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load sessions for history", "error", err)
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	weeks := ByWeek(all, s.calendar)
	if limit > 0 && len(weeks) > limit {
		weeks = weeks[:limit]
	}
	return weeks, nil
}
