package session

import (
	"context"
	"time"

	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/zone"
)

// Repository provides persistence for sessions.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id int64) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id int64) error
	ListRecent(ctx context.Context, limit int) ([]Session, error)
	ListAll(ctx context.Context) ([]Session, error)
	ListByWeek(ctx context.Context, weekStart time.Time) ([]Session, error)
}

// ZoneRepository resolves the zone a session references.
type ZoneRepository interface {
	Get(ctx context.Context, id int64) (*zone.Zone, error)
}

// ActivityRepository records session changes in the audit log.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
