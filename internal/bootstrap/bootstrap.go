// Package bootstrap wires the store, the domain services and the controller
// from a Config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/config"
	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/summary"
	"github.com/rpggio/dashlog/internal/domain/transfer"
	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/format"
	"github.com/rpggio/dashlog/internal/mcp"
	"github.com/rpggio/dashlog/internal/sqlite"
	"github.com/rpggio/dashlog/internal/webhook"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// App holds every wired component.
type App struct {
	Config      config.Config
	Logger      *slog.Logger
	DB          *sqlite.DB
	Calendar    week.Calendar
	Format      *format.Formatter
	Zones       *zone.Service
	Sessions    *session.Service
	Summary     *summary.Service
	Activity    *activity.Service
	Preferences *preference.Service
	Transfer    *transfer.Service
}

// New opens the store, applies migrations, seeds zones into an empty store
// and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cal, err := cfg.Calendar()
	if err != nil {
		return nil, fmt.Errorf("week calendar: %w", err)
	}
	fmtr, err := format.New(cfg.Display.Locale, cfg.Display.Currency)
	if err != nil {
		return nil, fmt.Errorf("display format: %w", err)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	zoneRepo := sqlite.NewZoneRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	preferenceRepo := sqlite.NewPreferenceRepository(db)

	zones := zone.NewService(zoneRepo, activityRepo, logger)
	sessions := session.NewService(sessionRepo, zoneRepo, activityRepo, cal, logger)
	sender := webhook.NewClient(nil, cfg.Webhook.Timeout, logger)

	a := &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Calendar:    cal,
		Format:      fmtr,
		Zones:       zones,
		Sessions:    sessions,
		Summary:     summary.NewService(sessions, cal, logger),
		Activity:    activity.NewService(activityRepo, logger),
		Preferences: preference.NewService(preferenceRepo, logger),
		Transfer:    transfer.NewService(zones, sessions, sender, activityRepo, logger),
	}

	seeded, err := zones.Seed(ctx, cfg.Zones.Seed)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed zones: %w", err)
	}
	if seeded > 0 {
		logger.Info("seeded zones", "count", seeded)
	}

	return a, nil
}

// Controller builds a controller over the app's services.
func (a *App) Controller(r app.Renderer) *app.Controller {
	return app.NewController(app.Services{
		Zones:       a.Zones,
		Sessions:    a.Sessions,
		Summary:     a.Summary,
		Preferences: a.Preferences,
	}, r, app.Options{
		RecentLimit: a.Config.Display.RecentLimit,
		Logger:      a.Logger,
	})
}

// MCPServer builds an MCP server over the app's services.
func (a *App) MCPServer() *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Zones:       a.Zones,
			Sessions:    a.Sessions,
			Summary:     a.Summary,
			Transfer:    a.Transfer,
			Activity:    a.Activity,
			Preferences: a.Preferences,
		},
		Format:     a.Format,
		WebhookURL: a.Config.Webhook.URL,
		Logger:     a.Logger,
	})
}

// Close releases the store.
func (a *App) Close() error {
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
