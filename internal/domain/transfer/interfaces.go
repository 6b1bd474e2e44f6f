package transfer

import (
	"context"

	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/webhook"
)

// ZoneService resolves zones by name for import and lists them for export.
type ZoneService interface {
	List(ctx context.Context, activeOnly bool) ([]zone.Zone, error)
	Ensure(ctx context.Context, name string) (*zone.Zone, zone.EnsureOutcome, error)
}

// SessionService reads every session and inserts imported ones.
type SessionService interface {
	ListAll(ctx context.Context) ([]session.Session, error)
	Insert(ctx context.Context, f session.Fields) (*session.Session, error)
}

// Sender delivers a payload to a webhook.
type Sender interface {
	Send(ctx context.Context, url, contentType string, body []byte) (*webhook.Result, error)
}

// ActivityRepository records transfers in the audit log.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
