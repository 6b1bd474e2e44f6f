package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/repository"
)

// ErrEmptyDraft indicates a draft without any field set.
var ErrEmptyDraft = errors.New("draft is empty")

// Service reads and writes the persisted preferences.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new preference service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// LastZoneID returns the last zone a session was logged against, or 0.
func (s *Service) LastZoneID(ctx context.Context) (int64, error) {
	v, err := s.get(ctx, KeyLastZoneID)
	if err != nil || v == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		s.logger.Warn("ignoring malformed preference", "key", KeyLastZoneID, "value", v)
		return 0, nil
	}
	return id, nil
}

// LastTimeBlock returns the last used time block label, or "".
func (s *Service) LastTimeBlock(ctx context.Context) (string, error) {
	return s.get(ctx, KeyLastTimeBlock)
}

// Remember stores the zone and time block of a successful log.
func (s *Service) Remember(ctx context.Context, zoneID int64, timeBlock string) error {
	if zoneID > 0 {
		if err := s.repo.Set(ctx, KeyLastZoneID, strconv.FormatInt(zoneID, 10)); err != nil {
			return fmt.Errorf("saving last zone: %w", err)
		}
	}
	if block := strings.TrimSpace(timeBlock); block != "" {
		if err := s.repo.Set(ctx, KeyLastTimeBlock, block); err != nil {
			return fmt.Errorf("saving last time block: %w", err)
		}
	}
	return nil
}

// Logged records a newly logged session: its zone and time block become the
// defaults and the draft it came from is discarded. Both steps run even if the
// first fails.
func (s *Service) Logged(ctx context.Context, zoneID int64, timeBlock string) error {
	return errors.Join(s.Remember(ctx, zoneID, timeBlock), s.ClearDraft(ctx))
}

// Draft returns the saved draft, or nil when none exists.
func (s *Service) Draft(ctx context.Context) (*Draft, error) {
	v, err := s.get(ctx, KeyDraft)
	if err != nil || v == "" {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal([]byte(v), &d); err != nil {
		s.logger.Warn("discarding malformed draft", "error", err)
		return nil, nil
	}
	return &d, nil
}

// SaveDraft replaces the saved draft.
func (s *Service) SaveDraft(ctx context.Context, d Draft) (*Draft, error) {
	if d.Empty() {
		return nil, ErrEmptyDraft
	}
	d.TimeBlock = strings.TrimSpace(d.TimeBlock)
	d.SavedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding draft: %w", err)
	}
	if err := s.repo.Set(ctx, KeyDraft, string(data)); err != nil {
		return nil, fmt.Errorf("saving draft: %w", err)
	}
	return &d, nil
}

// ClearDraft removes the saved draft. Clearing a missing draft is not an error.
func (s *Service) ClearDraft(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeyDraft); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading preference %s: %w", key, err)
	}
	return v, nil
}
