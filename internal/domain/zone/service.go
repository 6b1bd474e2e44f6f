package zone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/repository"
)

// Service handles zone operations.
type Service struct {
	repo     Repository
	activity ActivityRepository
	logger   *slog.Logger
}

// NewService creates a new zone service. activityRepo may be nil.
func NewService(repo Repository, activityRepo ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activity: activityRepo, logger: logger}
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Create adds a new active zone.
func (s *Service) Create(ctx context.Context, name string) (*Zone, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking zone name: %w", err)
	}

	z := &Zone{Name: name, Active: true, CreatedAt: time.Now()}
	if err := s.repo.Create(ctx, z); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating zone: %w", err)
	}

	s.logger.Info("zone created", "id", z.ID, "name", z.Name)
	s.record(ctx, activity.TypeZoneCreated, z, "created zone "+z.Name)
	return z, nil
}

// Get fetches a zone by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Zone, error) {
	z, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("getting zone: %w", err)
	}
	return z, nil
}

// List returns zones sorted by name; activeOnly hides soft-deleted zones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Zone, error) {
	zones, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	return zones, nil
}

// Rename changes a zone's name, keeping names unique.
func (s *Service) Rename(ctx context.Context, id int64, name string) (*Zone, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	z, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	other, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil && other.ID != id:
		return nil, ErrDuplicateName
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("checking zone name: %w", err)
	}

	old := z.Name
	z.Name = name
	if err := s.update(ctx, z); err != nil {
		return nil, err
	}
	s.record(ctx, activity.TypeZoneRenamed, z, fmt.Sprintf("renamed zone %s to %s", old, name))
	return z, nil
}

// Deactivate soft-deletes a zone. Sessions keep referencing it.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Zone, error) {
	return s.setActive(ctx, id, false)
}

// Reactivate makes a soft-deleted zone selectable again.
func (s *Service) Reactivate(ctx context.Context, id int64) (*Zone, error) {
	return s.setActive(ctx, id, true)
}

// Ensure returns the zone with the given name, creating it when absent and
// reactivating it when soft-deleted.
func (s *Service) Ensure(ctx context.Context, name string) (*Zone, EnsureOutcome, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, "", ErrInvalidInput
	}

	z, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("looking up zone: %w", err)
		}
		created, err := s.Create(ctx, name)
		if err != nil {
			return nil, "", err
		}
		return created, OutcomeCreated, nil
	}

	if z.Active {
		return z, OutcomeExisting, nil
	}
	z, err = s.setActive(ctx, z.ID, true)
	if err != nil {
		return nil, "", err
	}
	return z, OutcomeReactivated, nil
}

// Seed creates the given zones when the store holds no zones at all.
func (s *Service) Seed(ctx context.Context, names []string) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting zones: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, name := range names {
		if NormalizeName(name) == "" {
			continue
		}
		if _, err := s.Create(ctx, name); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) (*Zone, error) {
	z, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if z.Active == active {
		return z, nil
	}

	z.Active = active
	if err := s.update(ctx, z); err != nil {
		return nil, err
	}

	if active {
		s.record(ctx, activity.TypeZoneReactivated, z, "reactivated zone "+z.Name)
	} else {
		s.record(ctx, activity.TypeZoneDeactivated, z, "deactivated zone "+z.Name)
	}
	return z, nil
}

func (s *Service) update(ctx context.Context, z *Zone) error {
	if err := s.repo.Update(ctx, z); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrZoneNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrDuplicateName
		}
		return fmt.Errorf("updating zone: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, z *Zone, summary string) {
	if s.activity == nil {
		return
	}
	id := z.ID
	entry := &activity.ActivityEntry{
		ActivityType: typ,
		SubjectID:    &id,
		Summary:      summary,
	}
	if err := s.activity.Log(ctx, entry); err != nil {
		s.logger.Error("failed to log zone activity", "type", typ, "error", err)
	}
}
