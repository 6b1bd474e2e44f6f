package app

import (
	"context"
	"time"

	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/summary"
	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/rpggio/dashlog/internal/domain/zone"
)

// ZoneService is the zone surface the controller drives.
type ZoneService interface {
	List(ctx context.Context, activeOnly bool) ([]zone.Zone, error)
	Create(ctx context.Context, name string) (*zone.Zone, error)
	Deactivate(ctx context.Context, id int64) (*zone.Zone, error)
	Reactivate(ctx context.Context, id int64) (*zone.Zone, error)
}

// SessionService is the session surface the controller drives.
type SessionService interface {
	Calendar() week.Calendar
	Preview(f session.Fields) session.Preview
	Create(ctx context.Context, req session.CreateRequest) (*session.WriteResult, error)
	Update(ctx context.Context, req session.UpdateRequest) (*session.WriteResult, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*session.Session, error)
	ListRecent(ctx context.Context, limit int) ([]session.Session, error)
}

// SummaryService computes weekly totals.
type SummaryService interface {
	Week(ctx context.Context, t time.Time) (summary.Totals, error)
}

// PreferenceService persists last-used values and the draft.
type PreferenceService interface {
	LastZoneID(ctx context.Context) (int64, error)
	LastTimeBlock(ctx context.Context) (string, error)
	Logged(ctx context.Context, zoneID int64, timeBlock string) error
	Draft(ctx context.Context) (*preference.Draft, error)
	SaveDraft(ctx context.Context, d preference.Draft) (*preference.Draft, error)
	ClearDraft(ctx context.Context) error
}

// Renderer presents a state after every dispatched action.
type Renderer interface {
	Render(state State) error
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(State) error

func (f RenderFunc) Render(state State) error {
	return f(state)
}
