package mocks

import (
	"context"
	"time"

	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/stretchr/testify/mock"
)

// ZoneRepository is a mock for repository.ZoneRepository.
type ZoneRepository struct {
	mock.Mock
}

func (m *ZoneRepository) Create(ctx context.Context, z *zone.Zone) error {
	args := m.Called(ctx, z)
	return args.Error(0)
}

func (m *ZoneRepository) Get(ctx context.Context, id int64) (*zone.Zone, error) {
	args := m.Called(ctx, id)
	if z, ok := args.Get(0).(*zone.Zone); ok {
		return z, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ZoneRepository) GetByName(ctx context.Context, name string) (*zone.Zone, error) {
	args := m.Called(ctx, name)
	if z, ok := args.Get(0).(*zone.Zone); ok {
		return z, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ZoneRepository) Update(ctx context.Context, z *zone.Zone) error {
	args := m.Called(ctx, z)
	return args.Error(0)
}

func (m *ZoneRepository) List(ctx context.Context, activeOnly bool) ([]zone.Zone, error) {
	args := m.Called(ctx, activeOnly)
	if list, ok := args.Get(0).([]zone.Zone); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ZoneRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) ListRecent(ctx context.Context, limit int) ([]session.Session, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListAll(ctx context.Context) ([]session.Session, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListByWeek(ctx context.Context, weekStart time.Time) ([]session.Session, error) {
	args := m.Called(ctx, weekStart)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PreferenceRepository is a mock for repository.PreferenceRepository.
type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *PreferenceRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
