package mcp

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/summary"
	"github.com/rpggio/dashlog/internal/domain/transfer"
	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/format"
	"github.com/rpggio/dashlog/internal/webhook"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// ZoneService defines zone operations needed by MCP.
type ZoneService interface {
	List(ctx context.Context, activeOnly bool) ([]zone.Zone, error)
	Get(ctx context.Context, id int64) (*zone.Zone, error)
	Create(ctx context.Context, name string) (*zone.Zone, error)
	Deactivate(ctx context.Context, id int64) (*zone.Zone, error)
	Reactivate(ctx context.Context, id int64) (*zone.Zone, error)
}

// SessionService defines session operations needed by MCP.
type SessionService interface {
	Calendar() week.Calendar
	Preview(f session.Fields) session.Preview
	Create(ctx context.Context, req session.CreateRequest) (*session.WriteResult, error)
	Update(ctx context.Context, req session.UpdateRequest) (*session.WriteResult, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*session.Session, error)
	ListRecent(ctx context.Context, limit int) ([]session.Session, error)
	ListWeek(ctx context.Context, t time.Time) ([]session.Session, error)
}

// SummaryService defines weekly aggregation needed by MCP.
type SummaryService interface {
	Offset(ctx context.Context, n int) (summary.Totals, error)
	Week(ctx context.Context, t time.Time) (summary.Totals, error)
	History(ctx context.Context, limit int) ([]summary.Totals, error)
}

// TransferService defines export and import operations needed by MCP.
type TransferService interface {
	Export(ctx context.Context, format codec.Format) (*transfer.Payload, error)
	Import(ctx context.Context, format codec.Format, r io.Reader) (*transfer.ImportResult, error)
	Send(ctx context.Context, p *transfer.Payload, url string) (*webhook.Result, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// PreferenceService defines preference operations needed by MCP.
type PreferenceService interface {
	LastZoneID(ctx context.Context) (int64, error)
	LastTimeBlock(ctx context.Context) (string, error)
	Logged(ctx context.Context, zoneID int64, timeBlock string) error
	Draft(ctx context.Context) (*preference.Draft, error)
	SaveDraft(ctx context.Context, d preference.Draft) (*preference.Draft, error)
	ClearDraft(ctx context.Context) error
}

// Services contains all domain services needed by MCP.
type Services struct {
	Zones       ZoneService
	Sessions    SessionService
	Summary     SummaryService
	Transfer    TransferService
	Activity    ActivityService
	Preferences PreferenceService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Format renders the display strings included next to raw numbers.
	Format *format.Formatter
	// WebhookURL is used by export_data when the call names no URL.
	WebhookURL string
	Logger     *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Format == nil {
		cfg.Format = format.Default()
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "dashlog",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(recoverMiddleware(cfg.Logger))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	h := &handlers{
		svc:        cfg.Services,
		fmt:        cfg.Format,
		webhookURL: cfg.WebhookURL,
		logger:     cfg.Logger,
	}
	registerTools(server, h)

	return server
}
