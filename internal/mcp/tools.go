package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/format"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultActivityLimit = 20
	defaultHistoryLimit  = 12
)

type handlers struct {
	svc        Services
	fmt        *format.Formatter
	webhookURL string
	logger     *slog.Logger
}

func registerTools(server *sdkmcp.Server, h *handlers) {
	// Zones
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_zones",
		Description: "List zones. Only active zones are offered for new sessions; pass include_inactive to see all.",
	}, h.listZones)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_zone",
		Description: "Create a zone. Names are trimmed and must be unique ignoring case.",
	}, h.addZone)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deactivate_zone",
		Description: "Hide a zone from new sessions. Existing sessions keep their zone.",
	}, h.deactivateZone)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reactivate_zone",
		Description: "Make a deactivated zone selectable again.",
	}, h.reactivateZone)

	// Sessions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_session",
		Description: "Log a work session. Zone and time block default to the last used values. Returns UNCONFIRMED_WARNINGS unless force=true when validation warns.",
	}, h.logSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_session",
		Description: "Replace every field of an existing session. Warnings need force=true like log_session.",
	}, h.updateSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_session",
		Description: "Permanently delete a session.",
	}, h.deleteSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_session",
		Description: "Get one session with its derived metrics.",
	}, h.getSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sessions",
		Description: "List the most recent sessions, or every session of one week when week_offset is given.",
	}, h.listSessions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "preview_session",
		Description: "Compute derived metrics and warnings for a session without saving it.",
	}, h.previewSession)

	// Weeks
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "week_summary",
		Description: "Totals for one week: sessions, profit, time, $/hour, miles and orders.",
	}, h.weekSummary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "week_history",
		Description: "Totals for every week that has sessions, newest first.",
	}, h.weekHistory)

	// Transfer
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_data",
		Description: "Export all sessions as CSV or JSON. With send=true the export is POSTed to the webhook.",
	}, h.exportData)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_data",
		Description: "Import sessions from CSV or JSON content. Additive; the whole file is validated before anything is written.",
	}, h.importData)

	// Activity and drafts
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Recent changes: sessions logged, edited or deleted, zone changes, imports and sends.",
	}, h.recentActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_draft",
		Description: "Get the in-progress session draft, if any.",
	}, h.getDraft)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_draft",
		Description: "Save a partially filled session to finish later.",
	}, h.saveDraft)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_draft",
		Description: "Discard the in-progress session draft.",
	}, h.clearDraft)
}

func (h *handlers) listZones(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListZonesInput) (*sdkmcp.CallToolResult, ZonesOutput, error) {
	zones, err := h.svc.Zones.List(ctx, !in.IncludeInactive)
	if err != nil {
		return nil, ZonesOutput{}, toolError(err)
	}
	return nil, ZonesOutput{Zones: zoneViews(zones)}, nil
}

func (h *handlers) addZone(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddZoneInput) (*sdkmcp.CallToolResult, ZoneOutput, error) {
	z, err := h.svc.Zones.Create(ctx, in.Name)
	if err != nil {
		return nil, ZoneOutput{}, toolError(err)
	}
	return nil, ZoneOutput{Zone: zoneView(*z)}, nil
}

func (h *handlers) deactivateZone(ctx context.Context, _ *sdkmcp.CallToolRequest, in ZoneIDInput) (*sdkmcp.CallToolResult, ZoneOutput, error) {
	z, err := h.svc.Zones.Deactivate(ctx, in.ID)
	if err != nil {
		return nil, ZoneOutput{}, toolError(err)
	}
	return nil, ZoneOutput{Zone: zoneView(*z)}, nil
}

func (h *handlers) reactivateZone(ctx context.Context, _ *sdkmcp.CallToolRequest, in ZoneIDInput) (*sdkmcp.CallToolResult, ZoneOutput, error) {
	z, err := h.svc.Zones.Reactivate(ctx, in.ID)
	if err != nil {
		return nil, ZoneOutput{}, toolError(err)
	}
	return nil, ZoneOutput{Zone: zoneView(*z)}, nil
}

func (h *handlers) logSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionInput) (*sdkmcp.CallToolResult, SessionWriteOutput, error) {
	if in.ZoneID == 0 && strings.TrimSpace(in.Zone) == "" {
		id, err := h.svc.Preferences.LastZoneID(ctx)
		if err != nil {
			return nil, SessionWriteOutput{}, toolError(err)
		}
		in.ZoneID = id
	}
	if strings.TrimSpace(in.TimeBlock) == "" {
		block, err := h.svc.Preferences.LastTimeBlock(ctx)
		if err != nil {
			return nil, SessionWriteOutput{}, toolError(err)
		}
		in.TimeBlock = block
	}

	fields, err := h.fields(ctx, in)
	if err != nil {
		return nil, SessionWriteOutput{}, toolError(err)
	}
	res, err := h.svc.Sessions.Create(ctx, session.CreateRequest{Fields: fields, Force: in.Force})
	if err != nil {
		return nil, SessionWriteOutput{}, toolError(err)
	}

	if err := h.svc.Preferences.Logged(ctx, res.Session.ZoneID, res.Session.TimeBlock); err != nil {
		h.logger.Warn("failed to update preferences after log", "error", err)
	}

	out, err := h.writeOutput(ctx, res)
	return nil, out, err
}

func (h *handlers) updateSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateSessionInput) (*sdkmcp.CallToolResult, SessionWriteOutput, error) {
	fields, err := h.fields(ctx, in.Session)
	if err != nil {
		return nil, SessionWriteOutput{}, toolError(err)
	}
	res, err := h.svc.Sessions.Update(ctx, session.UpdateRequest{ID: in.ID, Fields: fields, Force: in.Session.Force})
	if err != nil {
		return nil, SessionWriteOutput{}, toolError(err)
	}
	out, err := h.writeOutput(ctx, res)
	return nil, out, err
}

func (h *handlers) deleteSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDInput) (*sdkmcp.CallToolResult, DeleteOutput, error) {
	if err := h.svc.Sessions.Delete(ctx, in.ID); err != nil {
		return nil, DeleteOutput{}, toolError(err)
	}
	return nil, DeleteOutput{ID: in.ID, Deleted: true}, nil
}

func (h *handlers) getSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDInput) (*sdkmcp.CallToolResult, SessionOutput, error) {
	s, err := h.svc.Sessions.Get(ctx, in.ID)
	if err != nil {
		return nil, SessionOutput{}, toolError(err)
	}
	names, err := h.zoneNames(ctx)
	if err != nil {
		return nil, SessionOutput{}, toolError(err)
	}
	return nil, SessionOutput{Session: sessionView(h.fmt, *s, zoneName(names, s.ZoneID))}, nil
}

func (h *handlers) listSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListSessionsInput) (*sdkmcp.CallToolResult, SessionsOutput, error) {
	var (
		sessions []session.Session
		err      error
	)
	if in.WeekOffset != nil {
		cal := h.svc.Sessions.Calendar()
		start := cal.Shift(cal.Current(time.Now()), *in.WeekOffset)
		sessions, err = h.svc.Sessions.ListWeek(ctx, start)
	} else {
		sessions, err = h.svc.Sessions.ListRecent(ctx, in.Limit)
	}
	if err != nil {
		return nil, SessionsOutput{}, toolError(err)
	}

	names, err := h.zoneNames(ctx)
	if err != nil {
		return nil, SessionsOutput{}, toolError(err)
	}
	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView(h.fmt, s, zoneName(names, s.ZoneID)))
	}
	return nil, SessionsOutput{Sessions: views}, nil
}

func (h *handlers) previewSession(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionInput) (*sdkmcp.CallToolResult, PreviewOutput, error) {
	loc := h.location()
	start, err := parseTime("start_time", in.StartTime, loc)
	if err != nil {
		return nil, PreviewOutput{}, toolError(err)
	}
	end, err := parseTime("end_time", in.EndTime, loc)
	if err != nil {
		return nil, PreviewOutput{}, toolError(err)
	}
	p := h.svc.Sessions.Preview(session.Fields{
		ZoneID:        in.ZoneID,
		TimeBlock:     in.TimeBlock,
		StartTime:     start,
		EndTime:       end,
		Profit:        in.Profit,
		StartMiles:    in.StartMiles,
		EndMiles:      in.EndMiles,
		Orders:        in.Orders,
		DashMinutes:   in.DashMinutes,
		ActiveMinutes: in.ActiveMinutes,
	})
	return nil, PreviewOutput{
		WeekStart: timestamp(p.Session.WeekStart),
		Derived:   derivedView(h.fmt, p.Derived),
		Warnings:  warningViews(p.Warnings),
	}, nil
}

func (h *handlers) weekSummary(ctx context.Context, _ *sdkmcp.CallToolRequest, in WeekSummaryInput) (*sdkmcp.CallToolResult, WeekSummaryOutput, error) {
	if in.Date != "" {
		day, err := parseTime("date", in.Date, h.location())
		if err != nil {
			return nil, WeekSummaryOutput{}, toolError(err)
		}
		totals, err := h.svc.Summary.Week(ctx, day)
		if err != nil {
			return nil, WeekSummaryOutput{}, toolError(err)
		}
		return nil, WeekSummaryOutput{Week: totalsView(h.fmt, totals)}, nil
	}

	totals, err := h.svc.Summary.Offset(ctx, in.Offset)
	if err != nil {
		return nil, WeekSummaryOutput{}, toolError(err)
	}
	return nil, WeekSummaryOutput{Week: totalsView(h.fmt, totals)}, nil
}

func (h *handlers) weekHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, in WeekHistoryInput) (*sdkmcp.CallToolResult, WeekHistoryOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	weeks, err := h.svc.Summary.History(ctx, limit)
	if err != nil {
		return nil, WeekHistoryOutput{}, toolError(err)
	}
	views := make([]TotalsView, 0, len(weeks))
	for _, t := range weeks {
		views = append(views, totalsView(h.fmt, t))
	}
	return nil, WeekHistoryOutput{Weeks: views}, nil
}

func (h *handlers) exportData(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportInput) (*sdkmcp.CallToolResult, ExportOutput, error) {
	f, err := parseFormat(in.Format)
	if err != nil {
		return nil, ExportOutput{}, toolError(err)
	}
	payload, err := h.svc.Transfer.Export(ctx, f)
	if err != nil {
		return nil, ExportOutput{}, toolError(err)
	}

	out := ExportOutput{
		Filename:     payload.Filename,
		ContentType:  payload.ContentType,
		SessionCount: payload.SessionCount,
		Content:      string(payload.Body),
	}
	if !in.Send {
		return nil, out, nil
	}

	url := in.WebhookURL
	if url == "" {
		url = h.webhookURL
	}
	res, err := h.svc.Transfer.Send(ctx, payload, url)
	if err != nil {
		return nil, ExportOutput{}, toolError(err)
	}
	out.Webhook = &WebhookView{Status: res.Status, Body: res.Body}
	return nil, out, nil
}

func (h *handlers) importData(ctx context.Context, _ *sdkmcp.CallToolRequest, in ImportInput) (*sdkmcp.CallToolResult, ImportOutput, error) {
	f, err := parseFormat(in.Format)
	if err != nil {
		return nil, ImportOutput{}, toolError(err)
	}
	res, err := h.svc.Transfer.Import(ctx, f, strings.NewReader(in.Content))
	if err != nil {
		return nil, ImportOutput{}, toolError(err)
	}
	return nil, ImportOutput{
		BatchID:          res.BatchID,
		ZonesCreated:     res.ZonesCreated,
		ZonesReactivated: res.ZonesReactivated,
		SessionsInserted: res.SessionsInserted,
	}, nil
}

func (h *handlers) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActivityInput) (*sdkmcp.CallToolResult, ActivityOutput, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit}
	if opts.Limit <= 0 {
		opts.Limit = defaultActivityLimit
	}
	if in.Type != "" {
		t := activity.ActivityType(in.Type)
		opts.ActivityType = &t
	}
	entries, err := h.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, ActivityOutput{}, toolError(err)
	}
	views := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, activityView(e))
	}
	return nil, ActivityOutput{Entries: views}, nil
}

func (h *handlers) getDraft(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoInput) (*sdkmcp.CallToolResult, DraftOutput, error) {
	d, err := h.svc.Preferences.Draft(ctx)
	if err != nil {
		return nil, DraftOutput{}, toolError(err)
	}
	return nil, DraftOutput{Draft: draftView(d)}, nil
}

func (h *handlers) saveDraft(ctx context.Context, _ *sdkmcp.CallToolRequest, in DraftInput) (*sdkmcp.CallToolResult, DraftOutput, error) {
	d := preference.Draft{
		ZoneID:     in.ZoneID,
		TimeBlock:  in.TimeBlock,
		StartMiles: in.StartMiles,
		EndMiles:   in.EndMiles,
	}
	if in.StartTime != "" {
		start, err := parseTime("start_time", in.StartTime, h.location())
		if err != nil {
			return nil, DraftOutput{}, toolError(err)
		}
		d.StartTime = &start
	}
	saved, err := h.svc.Preferences.SaveDraft(ctx, d)
	if err != nil {
		return nil, DraftOutput{}, toolError(err)
	}
	return nil, DraftOutput{Draft: draftView(saved)}, nil
}

func (h *handlers) clearDraft(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoInput) (*sdkmcp.CallToolResult, ClearOutput, error) {
	if err := h.svc.Preferences.ClearDraft(ctx); err != nil {
		return nil, ClearOutput{}, toolError(err)
	}
	return nil, ClearOutput{Cleared: true}, nil
}

// fields resolves a SessionInput into session fields, looking up the zone by
// name when no id is given.
func (h *handlers) fields(ctx context.Context, in SessionInput) (session.Fields, error) {
	zoneID := in.ZoneID
	if zoneID == 0 && strings.TrimSpace(in.Zone) != "" {
		z, err := h.zoneByName(ctx, in.Zone)
		if err != nil {
			return session.Fields{}, err
		}
		zoneID = z.ID
	}
	loc := h.location()
	start, err := parseTime("start_time", in.StartTime, loc)
	if err != nil {
		return session.Fields{}, err
	}
	end, err := parseTime("end_time", in.EndTime, loc)
	if err != nil {
		return session.Fields{}, err
	}
	return session.Fields{
		ZoneID:        zoneID,
		TimeBlock:     strings.TrimSpace(in.TimeBlock),
		StartTime:     start,
		EndTime:       end,
		Profit:        in.Profit,
		StartMiles:    in.StartMiles,
		EndMiles:      in.EndMiles,
		Orders:        in.Orders,
		DashMinutes:   in.DashMinutes,
		ActiveMinutes: in.ActiveMinutes,
	}, nil
}

func (h *handlers) zoneByName(ctx context.Context, name string) (*zone.Zone, error) {
	zones, err := h.svc.Zones.List(ctx, false)
	if err != nil {
		return nil, err
	}
	want := zone.NormalizeName(name)
	for i := range zones {
		if strings.EqualFold(zones[i].Name, want) {
			return &zones[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", zone.ErrZoneNotFound, want)
}

func (h *handlers) location() *time.Location {
	if loc := h.svc.Sessions.Calendar().Location; loc != nil {
		return loc
	}
	return time.Local
}

func zoneName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return codec.UnknownZone
}

func (h *handlers) zoneNames(ctx context.Context) (map[int64]string, error) {
	zones, err := h.svc.Zones.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(zones))
	for _, z := range zones {
		names[z.ID] = z.Name
	}
	return names, nil
}

func (h *handlers) writeOutput(ctx context.Context, res *session.WriteResult) (SessionWriteOutput, error) {
	if res == nil || res.Session == nil {
		return SessionWriteOutput{}, toolError(errors.New("empty write result"))
	}
	names, err := h.zoneNames(ctx)
	if err != nil {
		return SessionWriteOutput{}, toolError(err)
	}
	return SessionWriteOutput{
		Session:  sessionView(h.fmt, *res.Session, zoneName(names, res.Session.ZoneID)),
		Warnings: warningViews(res.Warnings),
	}, nil
}
