package mcp_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/config"
	"github.com/rpggio/dashlog/internal/mcp"
	"github.com/rpggio/dashlog/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type zoneResult struct {
	Zone mcp.ZoneView `json:"zone"`
}

type zonesResult struct {
	Zones []mcp.ZoneView `json:"zones"`
}

type writeResult struct {
	Session  mcp.SessionView   `json:"session"`
	Warnings []mcp.WarningView `json:"warnings"`
}

// monday returns noon on the first day of the current week.
func monday(ts *testserver.TestServer) time.Time {
	return ts.App.Calendar.Current(time.Now()).Add(12 * time.Hour)
}

func sessionArgs(zoneID int64, start time.Time) map[string]any {
	return map[string]any{
		"zone_id":        zoneID,
		"time_block":     "Dinner",
		"start_time":     start.Format(time.RFC3339),
		"end_time":       start.Add(2*time.Hour + 30*time.Minute).Format(time.RFC3339),
		"profit":         87.5,
		"start_miles":    1000.0,
		"end_miles":      1042.5,
		"orders":         6,
		"dash_minutes":   150,
		"active_minutes": 110,
	}
}

func findZone(t *testing.T, ts *testserver.TestServer, name string) mcp.ZoneView {
	t.Helper()
	var out zonesResult
	ts.Decode(t, "list_zones", map[string]any{"include_inactive": true}, &out)
	for _, z := range out.Zones {
		if z.Name == name {
			return z
		}
	}
	t.Fatalf("zone %s not listed", name)
	return mcp.ZoneView{}
}

func TestServer_ProtocolAndDocs(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	init := ts.Session.InitializeResult()
	require.NotNil(t, init)
	require.Equal(t, "dashlog", init.ServerInfo.Name)
	require.Equal(t, mcp.Version, init.ServerInfo.Version)

	tools, err := ts.Session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
		require.NotEmpty(t, tool.Description, tool.Name)
	}
	for _, want := range []string{
		"list_zones", "add_zone", "deactivate_zone", "reactivate_zone",
		"log_session", "update_session", "delete_session", "get_session",
		"list_sessions", "preview_session", "week_summary", "week_history",
		"export_data", "import_data", "get_recent_activity",
		"get_draft", "save_draft", "clear_draft",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}

	read, err := ts.Session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "dashlog://docs/metrics"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Equal(t, "text/markdown", read.Contents[0].MIMEType)
	require.Contains(t, read.Contents[0].Text, "$/hour")
}

func TestServer_Zones(t *testing.T) {
	ts := testserver.New(t)

	var seeded zonesResult
	ts.Decode(t, "list_zones", nil, &seeded)
	require.Len(t, seeded.Zones, 3)

	var added zoneResult
	ts.Decode(t, "add_zone", map[string]any{"name": "  Frisco "}, &added)
	require.Equal(t, "Frisco", added.Zone.Name)
	require.True(t, added.Zone.Active)

	errText := ts.CallToolError(t, "add_zone", map[string]any{"name": "frisco"})
	require.Contains(t, errText, "DUPLICATE_ZONE")

	ts.CallTool(t, "deactivate_zone", map[string]any{"id": added.Zone.ID})
	var active zonesResult
	ts.Decode(t, "list_zones", nil, &active)
	require.Len(t, active.Zones, 3)
	require.False(t, findZone(t, ts, "Frisco").Active)

	ts.CallTool(t, "reactivate_zone", map[string]any{"id": added.Zone.ID})
	require.True(t, findZone(t, ts, "Frisco").Active)

	errText = ts.CallToolError(t, "deactivate_zone", map[string]any{"id": 9999})
	require.Contains(t, errText, "ZONE_NOT_FOUND")
}

func TestServer_LogSessionAndDefaults(t *testing.T) {
	ts := testserver.New(t)
	plano := findZone(t, ts, "Plano")
	start := monday(ts)

	var logged writeResult
	ts.Decode(t, "log_session", sessionArgs(plano.ID, start), &logged)
	require.Positive(t, logged.Session.ID)
	require.Equal(t, "Plano", logged.Session.Zone)
	require.Equal(t, int64(150), logged.Session.Derived.TotalMinutes)
	require.InDelta(t, 42.5, logged.Session.Derived.TotalMiles, 1e-9)
	require.Equal(t, 40, logged.Session.Derived.WaitMinutes)
	require.NotNil(t, logged.Session.Derived.DollarsPerHour)
	require.InDelta(t, 35.0, *logged.Session.Derived.DollarsPerHour, 1e-9)
	require.Empty(t, logged.Warnings)

	// Zone and time block fall back to the last used values.
	args := sessionArgs(0, start.Add(4*time.Hour))
	delete(args, "zone_id")
	delete(args, "time_block")
	var second writeResult
	ts.Decode(t, "log_session", args, &second)
	require.Equal(t, plano.ID, second.Session.ZoneID)
	require.Equal(t, "Dinner", second.Session.TimeBlock)

	// Zones can be named instead of referenced by id.
	args = sessionArgs(0, start.Add(6*time.Hour))
	args["zone"] = "mckinney"
	var byName writeResult
	ts.Decode(t, "log_session", args, &byName)
	require.Equal(t, "McKinney", byName.Session.Zone)
}

func TestServer_LogSessionWarnings(t *testing.T) {
	ts := testserver.New(t)
	allen := findZone(t, ts, "Allen")

	args := sessionArgs(allen.ID, monday(ts))
	args["active_minutes"] = 200

	errText := ts.CallToolError(t, "log_session", args)
	require.Contains(t, errText, "UNCONFIRMED_WARNINGS")

	var sessions struct {
		Sessions []mcp.SessionView `json:"sessions"`
	}
	ts.Decode(t, "list_sessions", nil, &sessions)
	require.Empty(t, sessions.Sessions)

	args["force"] = true
	var logged writeResult
	ts.Decode(t, "log_session", args, &logged)
	require.Len(t, logged.Warnings, 1)
	require.Equal(t, "active_exceeds_dash", logged.Warnings[0].Code)
	require.Equal(t, 0, logged.Session.Derived.WaitMinutes)
}

func TestServer_PreviewSession(t *testing.T) {
	ts := testserver.New(t)

	var preview mcp.PreviewOutput
	ts.Decode(t, "preview_session", map[string]any{
		"start_time":  "2024-03-06 23:00",
		"end_time":    "2024-03-07 00:30",
		"profit":      30.0,
		"start_miles": 10.0,
		"end_miles":   10.0,
	}, &preview)
	require.Equal(t, int64(90), preview.Derived.TotalMinutes)
	require.Nil(t, preview.Derived.DollarsPerMile)
	require.Contains(t, preview.Derived.Display, "—")
	require.Equal(t, "2024-03-04T00:00:00Z", preview.WeekStart)

	codes := make([]string, 0, len(preview.Warnings))
	for _, w := range preview.Warnings {
		codes = append(codes, w.Code)
	}
	require.Contains(t, codes, "non_positive_miles")

	var crossing mcp.PreviewOutput
	ts.Decode(t, "preview_session", map[string]any{
		"start_time": "2024-03-06T23:00:00Z",
		"end_time":   "2024-03-06T00:30:00Z",
	}, &crossing)
	require.Equal(t, int64(90), crossing.Derived.TotalMinutes)
	require.Equal(t, "crosses_midnight", crossing.Warnings[0].Code)

	errText := ts.CallToolError(t, "preview_session", map[string]any{"start_time": "soon", "end_time": "later"})
	require.Contains(t, errText, "INVALID_INPUT")
}

func TestServer_EditDeleteAndWeeks(t *testing.T) {
	ts := testserver.New(t)
	allen := findZone(t, ts, "Allen")
	start := monday(ts)

	var first writeResult
	ts.Decode(t, "log_session", sessionArgs(allen.ID, start), &first)
	var older writeResult
	ts.Decode(t, "log_session", sessionArgs(allen.ID, start.AddDate(0, 0, -7)), &older)

	update := sessionArgs(allen.ID, start)
	update["profit"] = 100.0
	var updated writeResult
	ts.Decode(t, "update_session", map[string]any{"id": first.Session.ID, "session": update}, &updated)
	require.Equal(t, first.Session.ID, updated.Session.ID)
	require.InDelta(t, 100.0, updated.Session.Profit, 1e-9)

	var week mcp.WeekSummaryOutput
	ts.Decode(t, "week_summary", nil, &week)
	require.Equal(t, 1, week.Week.SessionCount)
	require.InDelta(t, 100.0, week.Week.ProfitSum, 1e-9)
	require.Equal(t, int64(150), week.Week.TotalMinutesSum)
	require.Equal(t, 6, week.Week.Orders)

	var last mcp.WeekSummaryOutput
	ts.Decode(t, "week_summary", map[string]any{"offset": -1}, &last)
	require.Equal(t, 1, last.Week.SessionCount)
	require.InDelta(t, 87.5, last.Week.ProfitSum, 1e-9)

	var byDate mcp.WeekSummaryOutput
	ts.Decode(t, "week_summary", map[string]any{"date": start.AddDate(0, 0, -5).Format("2006-01-02")}, &byDate)
	require.Equal(t, last.Week.WeekStart, byDate.Week.WeekStart)

	var history mcp.WeekHistoryOutput
	ts.Decode(t, "week_history", nil, &history)
	require.Len(t, history.Weeks, 2)
	require.Equal(t, week.Week.WeekStart, history.Weeks[0].WeekStart)

	var thisWeek struct {
		Sessions []mcp.SessionView `json:"sessions"`
	}
	ts.Decode(t, "list_sessions", map[string]any{"week_offset": 0}, &thisWeek)
	require.Len(t, thisWeek.Sessions, 1)

	ts.CallTool(t, "delete_session", map[string]any{"id": first.Session.ID})
	errText := ts.CallToolError(t, "get_session", map[string]any{"id": first.Session.ID})
	require.Contains(t, errText, "SESSION_NOT_FOUND")

	ts.Decode(t, "week_summary", nil, &week)
	require.Equal(t, 0, week.Week.SessionCount)
	require.Nil(t, week.Week.DollarsPerHour)
}

func TestServer_ExportImport(t *testing.T) {
	source := testserver.New(t)
	plano := findZone(t, source, "Plano")
	source.CallTool(t, "log_session", sessionArgs(plano.ID, monday(source)))

	var export mcp.ExportOutput
	source.Decode(t, "export_data", map[string]any{"format": "json"}, &export)
	require.Equal(t, 1, export.SessionCount)
	require.Equal(t, "application/json", export.ContentType)
	require.Contains(t, export.Filename, ".json")
	require.Nil(t, export.Webhook)

	target := testserver.New(t, func(cfg *config.Config) { cfg.Zones.Seed = nil })
	var imported mcp.ImportOutput
	target.Decode(t, "import_data", map[string]any{"format": "json", "content": export.Content}, &imported)
	require.NotEmpty(t, imported.BatchID)
	require.Equal(t, 1, imported.SessionsInserted)
	require.Equal(t, 1, imported.ZonesCreated)

	var sessions struct {
		Sessions []mcp.SessionView `json:"sessions"`
	}
	target.Decode(t, "list_sessions", nil, &sessions)
	require.Len(t, sessions.Sessions, 1)
	require.Equal(t, "Plano", sessions.Sessions[0].Zone)
	require.InDelta(t, 87.5, sessions.Sessions[0].Profit, 1e-9)

	errText := target.CallToolError(t, "import_data", map[string]any{"format": "csv", "content": "zone,profit\nPlano,1\n"})
	require.Contains(t, errText, "FORMAT_ERROR")
	errText = target.CallToolError(t, "import_data", map[string]any{"format": "xml", "content": ""})
	require.Contains(t, errText, "INVALID_INPUT")
}

func TestServer_ExportSend(t *testing.T) {
	var received []byte
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("stored"))
	}))
	t.Cleanup(hook.Close)

	ts := testserver.New(t, func(cfg *config.Config) { cfg.Webhook.URL = hook.URL })
	ts.CallTool(t, "log_session", sessionArgs(findZone(t, ts, "Allen").ID, monday(ts)))

	var export mcp.ExportOutput
	ts.Decode(t, "export_data", map[string]any{"format": "csv", "send": true}, &export)
	require.NotNil(t, export.Webhook)
	require.Equal(t, http.StatusCreated, export.Webhook.Status)
	require.Equal(t, "stored", export.Webhook.Body)
	require.Equal(t, export.Content, string(received))

	var activity mcp.ActivityOutput
	ts.Decode(t, "get_recent_activity", map[string]any{"type": "export_sent"}, &activity)
	require.Len(t, activity.Entries, 1)
}

func TestServer_HTTPExport(t *testing.T) {
	ts := testserver.New(t)
	ts.CallTool(t, "log_session", sessionArgs(findZone(t, ts, "Allen").ID, monday(ts)))

	resp, err := http.Get(ts.HTTP.URL + "/export/csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Allen")
}

func TestServer_DraftAndActivity(t *testing.T) {
	ts := testserver.New(t)
	plano := findZone(t, ts, "Plano")

	var empty mcp.DraftOutput
	ts.Decode(t, "get_draft", nil, &empty)
	require.Nil(t, empty.Draft)

	errText := ts.CallToolError(t, "save_draft", nil)
	require.Contains(t, errText, "INVALID_INPUT")

	var saved mcp.DraftOutput
	ts.Decode(t, "save_draft", map[string]any{
		"zone_id":     plano.ID,
		"start_time":  "2024-03-06 17:00",
		"start_miles": 1200.5,
	}, &saved)
	require.NotNil(t, saved.Draft)
	require.Equal(t, "2024-03-06T17:00:00Z", saved.Draft.StartTime)

	var loaded mcp.DraftOutput
	ts.Decode(t, "get_draft", nil, &loaded)
	require.NotNil(t, loaded.Draft)
	require.Equal(t, plano.ID, loaded.Draft.ZoneID)
	require.InDelta(t, 1200.5, *loaded.Draft.StartMiles, 1e-9)

	// Logging a session clears the draft.
	ts.CallTool(t, "log_session", sessionArgs(plano.ID, monday(ts)))
	ts.Decode(t, "get_draft", nil, &loaded)
	require.Nil(t, loaded.Draft)

	ts.CallTool(t, "save_draft", map[string]any{"time_block": "Lunch"})
	ts.CallTool(t, "clear_draft", nil)
	ts.Decode(t, "get_draft", nil, &loaded)
	require.Nil(t, loaded.Draft)

	var activity mcp.ActivityOutput
	ts.Decode(t, "get_recent_activity", map[string]any{"limit": 1}, &activity)
	require.Len(t, activity.Entries, 1)
	require.Equal(t, "session_logged", activity.Entries[0].Type)
}
