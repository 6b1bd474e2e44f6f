package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/rpggio/dashlog/internal/repository"
)

// DefaultRecentLimit is the number of sessions shown in the recent list.
const DefaultRecentLimit = 25

// Service handles session operations.
type Service struct {
	sessions Repository
	zones    ZoneRepository
	activity ActivityRepository
	calendar week.Calendar
	logger   *slog.Logger
}

// NewService creates a new session service. activityRepo may be nil.
func NewService(
	sessions Repository,
	zones ZoneRepository,
	activityRepo ActivityRepository,
	calendar week.Calendar,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		sessions: sessions,
		zones:    zones,
		activity: activityRepo,
		calendar: calendar,
		logger:   logger,
	}
}

// CreateRequest describes a new session. Force confirms any warnings.
type CreateRequest struct {
	Fields
	Force bool
}

// UpdateRequest fully replaces an existing session.
type UpdateRequest struct {
	ID int64
	Fields
	Force bool
}

// WriteResult holds the stored session and the warnings that were overridden.
type WriteResult struct {
	Session  *Session
	Warnings []Warning
}

// Preview holds the live calculation for an unsaved session.
type Preview struct {
	Session  Session
	Derived  Derived
	Warnings []Warning
}

// Calendar returns the week calendar used for bucketing.
func (s *Service) Calendar() week.Calendar {
	return s.calendar
}

// Preview computes derived metrics and warnings without writing anything.
func (s *Service) Preview(f Fields) Preview {
	sess := f.Session()
	if !sess.StartTime.IsZero() {
		sess.WeekStart = s.calendar.Start(sess.StartTime)
	}
	return Preview{
		Session:  sess,
		Derived:  Derive(sess),
		Warnings: Validate(sess),
	}
}

// Create validates and stores a new session.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*WriteResult, error) {
	sess := req.Fields.Session()
	warnings, err := s.prepare(ctx, &sess, req.Force)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Create(ctx, &sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session logged", "id", sess.ID, "zone_id", sess.ZoneID, "profit", sess.Profit)
	s.record(ctx, activity.TypeSessionLogged, sess.ID, fmt.Sprintf("logged %s session", sess.TimeBlock), warnings)
	return &WriteResult{Session: &sess, Warnings: warnings}, nil
}

// Update replaces every editable field of a stored session.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*WriteResult, error) {
	if req.ID <= 0 {
		return nil, ErrInvalidInput
	}

	existing, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	req.Fields.Apply(existing)
	warnings, err := s.prepare(ctx, existing, req.Force)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.logger.Info("session updated", "id", existing.ID)
	s.record(ctx, activity.TypeSessionUpdated, existing.ID, fmt.Sprintf("updated %s session", existing.TimeBlock), warnings)
	return &WriteResult{Session: existing, Warnings: warnings}, nil
}

// Insert stores a session without zone checks or warning confirmation. Used
// by import, where the zone was just ensured and the data was already
// accepted by whoever exported it.
func (s *Service) Insert(ctx context.Context, f Fields) (*Session, error) {
	sess := f.Session()
	sess.TimeBlock = strings.TrimSpace(sess.TimeBlock)
	if err := checkFields(sess); err != nil {
		return nil, err
	}
	sess.WeekStart = s.calendar.Start(sess.StartTime)
	if err := s.sessions.Create(ctx, &sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("deleting session: %w", err)
	}
	s.logger.Info("session deleted", "id", id)
	s.record(ctx, activity.TypeSessionDeleted, id, fmt.Sprintf("deleted session %d", id), nil)
	return nil
}

// Get fetches a session by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return sess, nil
}

// ListRecent returns the newest sessions by start time.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	sessions, err := s.sessions.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// ListAll returns every stored session.
func (s *Service) ListAll(ctx context.Context) ([]Session, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// ListWeek returns the sessions stored under the week containing t.
func (s *Service) ListWeek(ctx context.Context, t time.Time) ([]Session, error) {
	sessions, err := s.sessions.ListByWeek(ctx, s.calendar.Start(t))
	if err != nil {
		return nil, fmt.Errorf("listing week sessions: %w", err)
	}
	return sessions, nil
}

func (s *Service) prepare(ctx context.Context, sess *Session, force bool) ([]Warning, error) {
	sess.TimeBlock = strings.TrimSpace(sess.TimeBlock)
	if err := checkFields(*sess); err != nil {
		return nil, err
	}

	if _, err := s.zones.Get(ctx, sess.ZoneID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("loading zone: %w", err)
	}

	warnings := Validate(*sess)
	if len(warnings) > 0 && !force {
		return nil, &WarningsError{Warnings: warnings}
	}

	sess.WeekStart = s.calendar.Start(sess.StartTime)
	return warnings, nil
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, id int64, summary string, warnings []Warning) {
	if s.activity == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ActivityType: typ,
		SubjectID:    &id,
		Summary:      summary,
	}
	if len(warnings) > 0 {
		entry.Details = activity.Details(map[string]any{"overridden_warnings": warnings})
	}
	if err := s.activity.Log(ctx, entry); err != nil {
		s.logger.Error("failed to log session activity", "type", typ, "error", err)
	}
}
