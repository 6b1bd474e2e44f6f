package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/config"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // a Wednesday

type recorder struct {
	renders []app.State
}

func (r *recorder) Render(s app.State) error {
	r.renders = append(r.renders, s)
	return nil
}

func newController(t *testing.T) (*app.Controller, *bootstrap.App, *recorder) {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.Time.Zone = "UTC"

	a, err := bootstrap.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	rec := &recorder{}
	c := app.NewController(app.Services{
		Zones:       a.Zones,
		Sessions:    a.Sessions,
		Summary:     a.Summary,
		Preferences: a.Preferences,
	}, rec, app.Options{RecentLimit: 10, Now: func() time.Time { return now }})
	return c, a, rec
}

func zoneByName(t *testing.T, zones []zone.Zone, name string) zone.Zone {
	t.Helper()
	for _, z := range zones {
		if z.Name == name {
			return z
		}
	}
	t.Fatalf("zone %s not found", name)
	return zone.Zone{}
}

func dinner(zoneID int64, start time.Time) session.Fields {
	return session.Fields{
		ZoneID: zoneID, TimeBlock: session.BlockDinner,
		StartTime: start, EndTime: start.Add(2 * time.Hour),
		Profit: 40, StartMiles: 100, EndMiles: 130,
		Orders: 5, DashMinutes: 120, ActiveMinutes: 90,
	}
}

func TestController_RefreshShowsSeededZonesAndCurrentWeek(t *testing.T) {
	c, _, rec := newController(t)

	state, err := c.Dispatch(context.Background(), app.Refresh{})
	require.NoError(t, err)
	require.Len(t, rec.renders, 1)
	require.Len(t, state.Zones, 3)
	require.Len(t, state.ActiveZones, 3)
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), state.ActiveWeek)
	require.Equal(t, "Mar 4 – Mar 10", state.WeekLabel)
	require.Zero(t, state.Totals.SessionCount)
	require.Nil(t, state.Totals.DollarsPerHour)
}

func TestController_LogSession(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newController(t)

	state, err := c.Dispatch(ctx, app.Refresh{})
	require.NoError(t, err)
	plano := zoneByName(t, state.Zones, "Plano")

	_, err = c.Dispatch(ctx, app.SaveDraft{Draft: preference.Draft{ZoneID: plano.ID, TimeBlock: "Dinner"}})
	require.NoError(t, err)

	// Look at an older week, then log: the view snaps back to the current week.
	_, err = c.Dispatch(ctx, app.ShiftWeek{Weeks: -2})
	require.NoError(t, err)

	state, err = c.Dispatch(ctx, app.LogSession{Fields: dinner(plano.ID, now.Add(-3*time.Hour))})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), state.ActiveWeek)
	require.Equal(t, 1, state.Totals.SessionCount)
	require.InDelta(t, 40.0, state.Totals.ProfitSum, 1e-9)
	require.InDelta(t, 20.0, *state.Totals.DollarsPerHour, 1e-9)
	require.Len(t, state.Recent, 1)
	require.Equal(t, "Plano", state.Recent[0].ZoneName)
	require.Equal(t, int64(120), state.Recent[0].Derived.TotalMinutes)
	require.Equal(t, plano.ID, state.LastZoneID)
	require.Equal(t, session.BlockDinner, state.LastTimeBlock)
	require.Nil(t, state.Draft)
	require.Equal(t, "Session logged.", state.Notice)
}

func TestController_WarningsNeedConfirmation(t *testing.T) {
	ctx := context.Background()
	c, _, rec := newController(t)

	state, err := c.Dispatch(ctx, app.Refresh{})
	require.NoError(t, err)
	allen := zoneByName(t, state.Zones, "Allen")

	f := dinner(allen.ID, now.Add(-3*time.Hour))
	f.ActiveMinutes = 200

	state, err = c.Dispatch(ctx, app.LogSession{Fields: f})
	require.ErrorIs(t, err, session.ErrUnconfirmedWarnings)
	require.Len(t, state.Warnings, 1)
	require.Equal(t, session.WarnActiveExceedsDash, state.Warnings[0].Code)
	require.Empty(t, state.Recent)
	require.Len(t, rec.renders, 2)

	state, err = c.Dispatch(ctx, app.LogSession{Fields: f, Force: true})
	require.NoError(t, err)
	require.Len(t, state.Warnings, 1)
	require.Len(t, state.Recent, 1)
	require.Zero(t, state.Recent[0].Derived.WaitMinutes)
}

func TestController_EditAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newController(t)

	state, err := c.Dispatch(ctx, app.Refresh{})
	require.NoError(t, err)
	mck := zoneByName(t, state.Zones, "McKinney")

	state, err = c.Dispatch(ctx, app.LogSession{Fields: dinner(mck.ID, now.Add(-3*time.Hour))})
	require.NoError(t, err)
	id := state.Recent[0].Session.ID

	state, err = c.Dispatch(ctx, app.BeginEdit{ID: id})
	require.NoError(t, err)
	require.Equal(t, id, state.EditingID)
	require.NotNil(t, state.Editing)

	f := dinner(mck.ID, now.Add(-3*time.Hour))
	f.Profit = 60
	state, err = c.Dispatch(ctx, app.UpdateSession{Fields: f})
	require.NoError(t, err)
	require.Zero(t, state.EditingID)
	require.InDelta(t, 60.0, state.Totals.ProfitSum, 1e-9)

	_, err = c.Dispatch(ctx, app.BeginEdit{ID: id})
	require.NoError(t, err)
	state, err = c.Dispatch(ctx, app.CancelEdit{})
	require.NoError(t, err)
	require.Zero(t, state.EditingID)

	state, err = c.Dispatch(ctx, app.DeleteSession{ID: id})
	require.NoError(t, err)
	require.Empty(t, state.Recent)
	require.Zero(t, state.Totals.SessionCount)

	_, err = c.Dispatch(ctx, app.DeleteSession{ID: id})
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestController_Zones(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newController(t)

	state, err := c.Dispatch(ctx, app.AddZone{Name: "  Frisco "})
	require.NoError(t, err)
	require.Len(t, state.Zones, 4)
	frisco := zoneByName(t, state.Zones, "Frisco")

	_, err = c.Dispatch(ctx, app.AddZone{Name: "frisco"})
	require.ErrorIs(t, err, zone.ErrDuplicateName)

	state, err = c.Dispatch(ctx, app.DeactivateZone{ID: frisco.ID})
	require.NoError(t, err)
	require.Len(t, state.Zones, 4)
	require.Len(t, state.ActiveZones, 3)

	state, err = c.Dispatch(ctx, app.ReactivateZone{ID: frisco.ID})
	require.NoError(t, err)
	require.Len(t, state.ActiveZones, 4)
}

func TestController_WeekNavigation(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newController(t)

	state, err := c.Dispatch(ctx, app.ShiftWeek{Weeks: -1})
	require.NoError(t, err)
	require.Equal(t, "Feb 26 – Mar 3", state.WeekLabel)

	state, err = c.Dispatch(ctx, app.CurrentWeek{})
	require.NoError(t, err)
	require.Equal(t, "Mar 4 – Mar 10", state.WeekLabel)
}

func TestController_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newController(t)

	miles := 1200.0
	state, err := c.Dispatch(ctx, app.SaveDraft{Draft: preference.Draft{TimeBlock: "Lunch", StartMiles: &miles}})
	require.NoError(t, err)
	require.NotNil(t, state.Draft)
	require.Equal(t, "Lunch", state.Draft.TimeBlock)

	state, err = c.Dispatch(ctx, app.ClearDraft{})
	require.NoError(t, err)
	require.Nil(t, state.Draft)

	_, err = c.Dispatch(ctx, app.SaveDraft{})
	require.ErrorIs(t, err, preference.ErrEmptyDraft)
}

func TestController_Preview(t *testing.T) {
	c, _, rec := newController(t)

	start := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	p := c.Preview(session.Fields{
		TimeBlock: session.BlockLateNight,
		StartTime: start, EndTime: time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC),
		Profit: 30, StartMiles: 5, EndMiles: 20,
	})
	require.Equal(t, int64(150), p.Derived.TotalMinutes)
	require.NotEmpty(t, p.Warnings)
	require.Empty(t, rec.renders)
}
