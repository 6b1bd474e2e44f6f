package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/summary"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/format"
)

// Tool inputs.

type NoInput struct{}

type ListZonesInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty" jsonschema:"Also list deactivated zones"`
}

type AddZoneInput struct {
	Name string `json:"name" jsonschema:"Zone name, unique ignoring case"`
}

type ZoneIDInput struct {
	ID int64 `json:"id" jsonschema:"Zone id"`
}

type SessionIDInput struct {
	ID int64 `json:"id" jsonschema:"Session id"`
}

// SessionInput is the editable content of a session. Times accept RFC 3339
// or a local "2006-01-02 15:04" form.
type SessionInput struct {
	ZoneID        int64   `json:"zone_id,omitempty" jsonschema:"Zone id; defaults to the last used zone"`
	Zone          string  `json:"zone,omitempty" jsonschema:"Zone name, alternative to zone_id"`
	TimeBlock     string  `json:"time_block,omitempty" jsonschema:"Breakfast, Lunch, Dinner or Late Night; defaults to the last used block"`
	StartTime     string  `json:"start_time" jsonschema:"Session start"`
	EndTime       string  `json:"end_time" jsonschema:"Session end; earlier than start means it crossed midnight"`
	Profit        float64 `json:"profit,omitempty" jsonschema:"Earnings in dollars"`
	StartMiles    float64 `json:"start_miles,omitempty" jsonschema:"Odometer at start"`
	EndMiles      float64 `json:"end_miles,omitempty" jsonschema:"Odometer at end"`
	Orders        int     `json:"orders,omitempty" jsonschema:"Deliveries completed"`
	DashMinutes   int     `json:"dash_minutes,omitempty" jsonschema:"Minutes online"`
	ActiveMinutes int     `json:"active_minutes,omitempty" jsonschema:"Minutes on an order"`
	Force         bool    `json:"force,omitempty" jsonschema:"Save despite validation warnings"`
}

type UpdateSessionInput struct {
	ID      int64        `json:"id" jsonschema:"Session id"`
	Session SessionInput `json:"session" jsonschema:"Full replacement content"`
}

type ListSessionsInput struct {
	Limit      int  `json:"limit,omitempty" jsonschema:"Maximum sessions to return"`
	WeekOffset *int `json:"week_offset,omitempty" jsonschema:"List one week instead: 0 is this week, -1 last week"`
}

type WeekSummaryInput struct {
	Offset int    `json:"offset,omitempty" jsonschema:"Weeks from the current week, negative is earlier"`
	Date   string `json:"date,omitempty" jsonschema:"Any date inside the wanted week (YYYY-MM-DD); overrides offset"`
}

type WeekHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum weeks to return"`
}

type ExportInput struct {
	Format     string `json:"format" jsonschema:"csv or json"`
	Send       bool   `json:"send,omitempty" jsonschema:"POST the export to the webhook"`
	WebhookURL string `json:"webhook_url,omitempty" jsonschema:"Webhook URL; defaults to the configured one"`
}

type ImportInput struct {
	Format  string `json:"format" jsonschema:"csv or json"`
	Content string `json:"content" jsonschema:"The full file content"`
}

type ActivityInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum entries to return"`
	Type  string `json:"type,omitempty" jsonschema:"Only entries of this type, e.g. session_logged"`
}

type DraftInput struct {
	ZoneID     int64    `json:"zone_id,omitempty"`
	TimeBlock  string   `json:"time_block,omitempty"`
	StartTime  string   `json:"start_time,omitempty"`
	StartMiles *float64 `json:"start_miles,omitempty"`
	EndMiles   *float64 `json:"end_miles,omitempty"`
}

// Tool outputs.

type ZoneView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type ZonesOutput struct {
	Zones []ZoneView `json:"zones"`
}

type ZoneOutput struct {
	Zone ZoneView `json:"zone"`
}

type DerivedView struct {
	TotalMiles     float64  `json:"total_miles"`
	TotalMinutes   int64    `json:"total_minutes"`
	WaitMinutes    int      `json:"wait_minutes"`
	DollarsPerHour *float64 `json:"dollars_per_hour"`
	DollarsPerMile *float64 `json:"dollars_per_mile"`
	Display        string   `json:"display"`
}

type SessionView struct {
	ID            int64       `json:"id"`
	ZoneID        int64       `json:"zone_id"`
	Zone          string      `json:"zone"`
	TimeBlock     string      `json:"time_block"`
	StartTime     string      `json:"start_time"`
	EndTime       string      `json:"end_time"`
	Profit        float64     `json:"profit"`
	StartMiles    float64     `json:"start_miles"`
	EndMiles      float64     `json:"end_miles"`
	Orders        int         `json:"orders"`
	DashMinutes   int         `json:"dash_minutes"`
	ActiveMinutes int         `json:"active_minutes"`
	WeekStart     string      `json:"week_start"`
	Derived       DerivedView `json:"derived"`
}

type WarningView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SessionWriteOutput struct {
	Session  SessionView   `json:"session"`
	Warnings []WarningView `json:"warnings"`
}

type SessionOutput struct {
	Session SessionView `json:"session"`
}

type SessionsOutput struct {
	Sessions []SessionView `json:"sessions"`
}

type DeleteOutput struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

type PreviewOutput struct {
	WeekStart string        `json:"week_start"`
	Derived   DerivedView   `json:"derived"`
	Warnings  []WarningView `json:"warnings"`
}

type TotalsView struct {
	WeekStart       string   `json:"week_start"`
	Label           string   `json:"label"`
	SessionCount    int      `json:"session_count"`
	ProfitSum       float64  `json:"profit_sum"`
	TotalMinutesSum int64    `json:"total_minutes_sum"`
	DollarsPerHour  *float64 `json:"dollars_per_hour"`
	TotalMiles      float64  `json:"total_miles"`
	Orders          int      `json:"orders"`
	Display         string   `json:"display"`
}

type WeekSummaryOutput struct {
	Week TotalsView `json:"week"`
}

type WeekHistoryOutput struct {
	Weeks []TotalsView `json:"weeks"`
}

type WebhookView struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type ExportOutput struct {
	Filename     string       `json:"filename"`
	ContentType  string       `json:"content_type"`
	SessionCount int          `json:"session_count"`
	Content      string       `json:"content"`
	Webhook      *WebhookView `json:"webhook,omitempty"`
}

type ImportOutput struct {
	BatchID          string `json:"batch_id"`
	ZonesCreated     int    `json:"zones_created"`
	ZonesReactivated int    `json:"zones_reactivated"`
	SessionsInserted int    `json:"sessions_inserted"`
}

type ActivityView struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	SubjectID *int64 `json:"subject_id,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ActivityOutput struct {
	Entries []ActivityView `json:"entries"`
}

type DraftView struct {
	ZoneID     int64    `json:"zone_id,omitempty"`
	TimeBlock  string   `json:"time_block,omitempty"`
	StartTime  string   `json:"start_time,omitempty"`
	StartMiles *float64 `json:"start_miles,omitempty"`
	EndMiles   *float64 `json:"end_miles,omitempty"`
	SavedAt    string   `json:"saved_at"`
}

type DraftOutput struct {
	Draft *DraftView `json:"draft"`
}

type ClearOutput struct {
	Cleared bool `json:"cleared"`
}

// Conversions.

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts RFC 3339 or a local layout interpreted in loc.
func parseTime(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", errInvalidArgument, field)
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s %q is not a recognized time", errInvalidArgument, field, value)
}

func parseFormat(name string) (codec.Format, error) {
	f, err := codec.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return f, nil
}

func zoneView(z zone.Zone) ZoneView {
	return ZoneView{ID: z.ID, Name: z.Name, Active: z.Active, CreatedAt: timestamp(z.CreatedAt)}
}

func zoneViews(zones []zone.Zone) []ZoneView {
	out := make([]ZoneView, 0, len(zones))
	for _, z := range zones {
		out = append(out, zoneView(z))
	}
	return out
}

func derivedView(f *format.Formatter, d session.Derived) DerivedView {
	return DerivedView{
		TotalMiles:     d.TotalMiles,
		TotalMinutes:   d.TotalMinutes,
		WaitMinutes:    d.WaitMinutes,
		DollarsPerHour: d.DollarsPerHour,
		DollarsPerMile: d.DollarsPerMile,
		Display: fmt.Sprintf("%s, %s, %s, %s",
			format.HoursMinutes(d.TotalMinutes),
			f.Miles(d.TotalMiles),
			f.Rate(d.DollarsPerHour, "/hr"),
			f.Rate(d.DollarsPerMile, "/mi")),
	}
}

func sessionView(f *format.Formatter, s session.Session, zoneName string) SessionView {
	return SessionView{
		ID:            s.ID,
		ZoneID:        s.ZoneID,
		Zone:          zoneName,
		TimeBlock:     s.TimeBlock,
		StartTime:     timestamp(s.StartTime),
		EndTime:       timestamp(s.EndTime),
		Profit:        s.Profit,
		StartMiles:    s.StartMiles,
		EndMiles:      s.EndMiles,
		Orders:        s.Orders,
		DashMinutes:   s.DashMinutes,
		ActiveMinutes: s.ActiveMinutes,
		WeekStart:     timestamp(s.WeekStart),
		Derived:       derivedView(f, session.Derive(s)),
	}
}

func warningViews(warnings []session.Warning) []WarningView {
	out := make([]WarningView, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningView{Code: string(w.Code), Message: w.Message})
	}
	return out
}

func totalsView(f *format.Formatter, t summary.Totals) TotalsView {
	return TotalsView{
		WeekStart:       timestamp(t.WeekStart),
		Label:           t.Label,
		SessionCount:    t.SessionCount,
		ProfitSum:       t.ProfitSum,
		TotalMinutesSum: t.TotalMinutesSum,
		DollarsPerHour:  t.DollarsPerHour,
		TotalMiles:      t.TotalMiles,
		Orders:          t.Orders,
		Display: fmt.Sprintf("%s: %d sessions, %s in %s, %s",
			t.Label, t.SessionCount, f.Money(t.ProfitSum),
			format.HoursMinutes(t.TotalMinutesSum), f.Rate(t.DollarsPerHour, "/hr")),
	}
}

func activityView(e activity.ActivityEntry) ActivityView {
	return ActivityView{
		ID:        e.ID,
		Type:      string(e.ActivityType),
		SubjectID: e.SubjectID,
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: timestamp(e.CreatedAt),
	}
}

func draftView(d *preference.Draft) *DraftView {
	if d == nil {
		return nil
	}
	v := &DraftView{
		ZoneID:     d.ZoneID,
		TimeBlock:  d.TimeBlock,
		StartMiles: d.StartMiles,
		EndMiles:   d.EndMiles,
		SavedAt:    timestamp(d.SavedAt),
	}
	if d.StartTime != nil {
		v.StartTime = timestamp(*d.StartTime)
	}
	return v
}
