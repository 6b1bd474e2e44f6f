package zone

import (
	"context"

	"github.com/rpggio/dashlog/internal/domain/activity"
)

// Repository provides persistence for zones.
type Repository interface {
	Create(ctx context.Context, z *Zone) error
	Get(ctx context.Context, id int64) (*Zone, error)
	GetByName(ctx context.Context, name string) (*Zone, error)
	Update(ctx context.Context, z *Zone) error
	List(ctx context.Context, activeOnly bool) ([]Zone, error)
	Count(ctx context.Context) (int, error)
}

// ActivityRepository records zone changes in the audit log.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
