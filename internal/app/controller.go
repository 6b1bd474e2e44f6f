// Package app owns the application state and applies user actions to it.
//
// Every action runs one command handler, then the state is rebuilt from a
// fresh read of the store and handed to the Renderer.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/zone"
)

// ErrUnknownAction indicates an action type without a handler.
var ErrUnknownAction = errors.New("unknown action")

// Services bundles the collaborators of a Controller.
type Services struct {
	Zones       ZoneService
	Sessions    SessionService
	Summary     SummaryService
	Preferences PreferenceService
}

// Options tunes a Controller.
type Options struct {
	RecentLimit int
	Now         func() time.Time
	Logger      *slog.Logger
}

// Controller applies actions to the state and renders the result.
type Controller struct {
	svc      Services
	renderer Renderer
	limit    int
	now      func() time.Time
	logger   *slog.Logger

	state State
}

// NewController creates a controller showing the current week. A nil
// renderer discards renders.
func NewController(svc Services, renderer Renderer, opts Options) *Controller {
	if renderer == nil {
		renderer = RenderFunc(func(State) error { return nil })
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		svc:      svc,
		renderer: renderer,
		limit:    opts.RecentLimit,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	c.state.ActiveWeek = svc.Sessions.Calendar().Current(c.now())
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Preview computes the live metrics and warnings of an unsaved session.
func (c *Controller) Preview(f session.Fields) session.Preview {
	return c.svc.Sessions.Preview(f)
}

// Dispatch handles one action, refreshes the state and renders it. When the
// handler fails the state is still refreshed and rendered, and the handler's
// error is returned.
func (c *Controller) Dispatch(ctx context.Context, action Action) (State, error) {
	c.state.Notice = ""
	c.state.Warnings = nil

	herr := c.handle(ctx, action)
	if herr != nil {
		c.logger.Debug("action failed", "action", action.actionName(), "error", herr)
		var werr *session.WarningsError
		if errors.As(herr, &werr) {
			c.state.Warnings = werr.Warnings
		}
	}

	if err := c.refresh(ctx); err != nil {
		return c.state, errors.Join(herr, err)
	}
	if err := c.renderer.Render(c.state); err != nil {
		return c.state, errors.Join(herr, fmt.Errorf("rendering: %w", err))
	}
	return c.state, herr
}

func (c *Controller) handle(ctx context.Context, action Action) error {
	switch a := action.(type) {
	case LogSession:
		return c.logSession(ctx, a)
	case UpdateSession:
		return c.updateSession(ctx, a)
	case DeleteSession:
		if err := c.svc.Sessions.Delete(ctx, a.ID); err != nil {
			return err
		}
		if c.state.EditingID == a.ID {
			c.endEdit()
		}
		c.state.Notice = "Session deleted."
		return nil
	case BeginEdit:
		sess, err := c.svc.Sessions.Get(ctx, a.ID)
		if err != nil {
			return err
		}
		c.state.EditingID = sess.ID
		c.state.Editing = sess
		return nil
	case CancelEdit:
		c.endEdit()
		return nil
	case ShiftWeek:
		c.state.ActiveWeek = c.svc.Sessions.Calendar().Shift(c.state.ActiveWeek, a.Weeks)
		return nil
	case CurrentWeek:
		c.state.ActiveWeek = c.svc.Sessions.Calendar().Current(c.now())
		return nil
	case AddZone:
		z, err := c.svc.Zones.Create(ctx, a.Name)
		if err != nil {
			return err
		}
		c.state.Notice = fmt.Sprintf("Zone %s added.", z.Name)
		return nil
	case DeactivateZone:
		z, err := c.svc.Zones.Deactivate(ctx, a.ID)
		if err != nil {
			return err
		}
		c.state.Notice = fmt.Sprintf("Zone %s deactivated.", z.Name)
		return nil
	case ReactivateZone:
		z, err := c.svc.Zones.Reactivate(ctx, a.ID)
		if err != nil {
			return err
		}
		c.state.Notice = fmt.Sprintf("Zone %s reactivated.", z.Name)
		return nil
	case SaveDraft:
		if _, err := c.svc.Preferences.SaveDraft(ctx, a.Draft); err != nil {
			return err
		}
		c.state.Notice = "Draft saved."
		return nil
	case ClearDraft:
		if err := c.svc.Preferences.ClearDraft(ctx); err != nil {
			return err
		}
		c.state.Notice = "Draft cleared."
		return nil
	case Refresh:
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnknownAction, action)
}

func (c *Controller) logSession(ctx context.Context, a LogSession) error {
	res, err := c.svc.Sessions.Create(ctx, session.CreateRequest{Fields: a.Fields, Force: a.Force})
	if err != nil {
		return err
	}

	c.state.Warnings = res.Warnings
	c.state.ActiveWeek = c.svc.Sessions.Calendar().Current(c.now())
	c.state.Notice = "Session logged."

	if err := c.svc.Preferences.Logged(ctx, res.Session.ZoneID, res.Session.TimeBlock); err != nil {
		c.logger.Warn("failed to update preferences after log", "error", err)
	}
	return nil
}

func (c *Controller) updateSession(ctx context.Context, a UpdateSession) error {
	id := a.ID
	if id == 0 {
		id = c.state.EditingID
	}
	res, err := c.svc.Sessions.Update(ctx, session.UpdateRequest{ID: id, Fields: a.Fields, Force: a.Force})
	if err != nil {
		return err
	}
	c.state.Warnings = res.Warnings
	c.state.Notice = "Session updated."
	c.endEdit()
	return nil
}

func (c *Controller) endEdit() {
	c.state.EditingID = 0
	c.state.Editing = nil
}

func (c *Controller) refresh(ctx context.Context) error {
	zones, err := c.svc.Zones.List(ctx, false)
	if err != nil {
		return err
	}
	var active []zone.Zone
	for _, z := range zones {
		if z.Active {
			active = append(active, z)
		}
	}
	c.state.Zones = zones
	c.state.ActiveZones = active

	totals, err := c.svc.Summary.Week(ctx, c.state.ActiveWeek)
	if err != nil {
		return err
	}
	c.state.Totals = totals
	c.state.WeekLabel = totals.Label

	recent, err := c.svc.Sessions.ListRecent(ctx, c.limit)
	if err != nil {
		return err
	}
	c.state.Recent = make([]SessionView, 0, len(recent))
	for _, s := range recent {
		c.state.Recent = append(c.state.Recent, SessionView{
			Session:  s,
			ZoneName: c.state.ZoneName(s.ZoneID),
			Derived:  session.Derive(s),
		})
	}

	if c.state.LastZoneID, err = c.svc.Preferences.LastZoneID(ctx); err != nil {
		return err
	}
	if c.state.LastTimeBlock, err = c.svc.Preferences.LastTimeBlock(ctx); err != nil {
		return err
	}
	if c.state.Draft, err = c.svc.Preferences.Draft(ctx); err != nil {
		return err
	}
	return nil
}
