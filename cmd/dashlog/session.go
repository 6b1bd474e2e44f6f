package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/format"
)

// sessionFlags are the editable session fields as command line flags.
type sessionFlags struct {
	zone       string
	block      string
	date       string
	start      string
	end        string
	profit     float64
	startMiles float64
	endMiles   float64
	orders     int
	dash       int
	active     int
	force      bool
}

func (f *sessionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.zone, "zone", "", "zone id or name (defaults to the last used zone)")
	fs.StringVar(&f.block, "block", "", "time block: Breakfast|Lunch|Dinner|Late Night (defaults to the last used)")
	fs.StringVar(&f.date, "date", "", "day for HH:MM times, YYYY-MM-DD (defaults to today)")
	fs.StringVar(&f.start, "start", "", "start time: HH:MM, YYYY-MM-DD HH:MM or RFC 3339")
	fs.StringVar(&f.end, "end", "", "end time; earlier than start means it crossed midnight")
	fs.Float64Var(&f.profit, "profit", 0, "earnings in dollars")
	fs.Float64Var(&f.startMiles, "start-miles", 0, "odometer at start")
	fs.Float64Var(&f.endMiles, "end-miles", 0, "odometer at end")
	fs.IntVar(&f.orders, "orders", 0, "deliveries completed")
	fs.IntVar(&f.dash, "dash", 0, "minutes online")
	fs.IntVar(&f.active, "active", 0, "minutes on an order")
	fs.BoolVar(&f.force, "force", false, "save even when validation warns")
}

// apply overlays the flags that were set onto base. Unset zone and time
// block fall back to the draft and then to the last used values.
func (f *sessionFlags) apply(ctx context.Context, a *bootstrap.App, fs *pflag.FlagSet, base session.Fields, withDefaults bool) (session.Fields, error) {
	loc := a.Calendar.Location
	day, err := parseDay(f.date, loc, nowFunc())
	if err != nil {
		return base, err
	}

	if withDefaults {
		if err := f.fillDefaults(ctx, a, &base); err != nil {
			return base, err
		}
	}

	if fs.Changed("zone") {
		z, err := resolveZone(ctx, a, f.zone)
		if err != nil {
			return base, err
		}
		base.ZoneID = z.ID
	}
	if fs.Changed("block") {
		base.TimeBlock = strings.TrimSpace(f.block)
	}
	if fs.Changed("start") {
		if base.StartTime, err = parseTime("--start", f.start, day, loc); err != nil {
			return base, err
		}
	}
	if fs.Changed("end") {
		if base.EndTime, err = parseTime("--end", f.end, day, loc); err != nil {
			return base, err
		}
	}
	if fs.Changed("profit") {
		base.Profit = f.profit
	}
	if fs.Changed("start-miles") {
		base.StartMiles = f.startMiles
	}
	if fs.Changed("end-miles") {
		base.EndMiles = f.endMiles
	}
	if fs.Changed("orders") {
		base.Orders = f.orders
	}
	if fs.Changed("dash") {
		base.DashMinutes = f.dash
	}
	if fs.Changed("active") {
		base.ActiveMinutes = f.active
	}
	return base, nil
}

func (f *sessionFlags) fillDefaults(ctx context.Context, a *bootstrap.App, base *session.Fields) error {
	draft, err := a.Preferences.Draft(ctx)
	if err != nil {
		return err
	}
	if draft != nil {
		base.ZoneID = draft.ZoneID
		base.TimeBlock = draft.TimeBlock
		if draft.StartTime != nil {
			base.StartTime = *draft.StartTime
		}
		if draft.StartMiles != nil {
			base.StartMiles = *draft.StartMiles
		}
		if draft.EndMiles != nil {
			base.EndMiles = *draft.EndMiles
		}
	}
	if base.ZoneID == 0 {
		if base.ZoneID, err = a.Preferences.LastZoneID(ctx); err != nil {
			return err
		}
	}
	if base.TimeBlock == "" {
		if base.TimeBlock, err = a.Preferences.LastTimeBlock(ctx); err != nil {
			return err
		}
	}
	return nil
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	sessionCmd := &cobra.Command{Use: "session", Short: "Log and manage work sessions"}
	sessionCmd.AddCommand(
		newSessionLogCmd(opts),
		newSessionEditCmd(opts),
		newSessionDeleteCmd(opts),
		newSessionShowCmd(opts),
		newSessionListCmd(opts),
		newSessionPreviewCmd(opts),
	)
	return sessionCmd
}

func newSessionLogCmd(opts *rootOptions) *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				fields, err := flags.apply(ctx, a, cmd.Flags(), session.Fields{}, true)
				if err != nil {
					return err
				}
				ctrl := a.Controller(newPrinter(out, a.Format, a.Calendar.Location))
				_, err = ctrl.Dispatch(ctx, app.LogSession{Fields: fields, Force: flags.force})
				return confirmHint(err)
			})(cmd, args)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newSessionEditCmd(opts *rootOptions) *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a logged session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				ctrl := a.Controller(newPrinter(io.Discard, a.Format, a.Calendar.Location))
				state, err := ctrl.Dispatch(ctx, app.BeginEdit{ID: id})
				if err != nil {
					return err
				}
				base := fieldsOf(*state.Editing)
				fields, err := flags.apply(ctx, a, cmd.Flags(), base, false)
				if err != nil {
					return err
				}

				ctrl = a.Controller(newPrinter(out, a.Format, a.Calendar.Location))
				_, err = ctrl.Dispatch(ctx, app.UpdateSession{ID: id, Fields: fields, Force: flags.force})
				return confirmHint(err)
			})(cmd, args)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newSessionDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				_, err := a.Controller(newPrinter(out, a.Format, a.Calendar.Location)).Dispatch(ctx, app.DeleteSession{ID: id})
				return err
			})(cmd, args)
		},
	}
}

func newSessionShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a session with its derived metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				s, err := a.Sessions.Get(ctx, id)
				if err != nil {
					return err
				}
				zones, err := a.Zones.List(ctx, false)
				if err != nil {
					return err
				}
				newPrinter(out, a.Format, a.Calendar.Location).sessionDetail(*s, zoneLabel(zoneNames(zones), s.ZoneID))
				return nil
			})(cmd, args)
		},
	}
}

func newSessionListCmd(opts *rootOptions) *cobra.Command {
	var limit, weekOffset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions, or one week with --week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				var (
					sessions []session.Session
					err      error
				)
				if cmd.Flags().Changed("week") {
					start := a.Calendar.Shift(a.Calendar.Current(nowFunc()), weekOffset)
					sessions, err = a.Sessions.ListWeek(ctx, start)
				} else {
					sessions, err = a.Sessions.ListRecent(ctx, limit)
				}
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(out, "no sessions")
					return nil
				}
				zones, err := a.Zones.List(ctx, false)
				if err != nil {
					return err
				}
				names := zoneNames(zones)
				p := newPrinter(out, a.Format, a.Calendar.Location)
				for _, s := range sessions {
					p.sessionLine(s, zoneLabel(names, s.ZoneID))
				}
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum sessions (defaults to display.recent_limit)")
	cmd.Flags().IntVar(&weekOffset, "week", 0, "list one week: 0 is this week, -1 last week")
	return cmd
}

func newSessionPreviewCmd(opts *rootOptions) *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the derived metrics and warnings without saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				fields, err := flags.apply(ctx, a, cmd.Flags(), session.Fields{}, true)
				if err != nil {
					return err
				}
				preview := a.Controller(nil).Preview(fields)
				p := newPrinter(out, a.Format, a.Calendar.Location)
				d := preview.Derived
				p.printf("%s %s\n", labelColor.Sprint("miles:"), p.fmt.Miles(d.TotalMiles))
				p.printf("%s %s\n", labelColor.Sprint("time:"), format.HoursMinutes(d.TotalMinutes))
				p.printf("%s %dm\n", labelColor.Sprint("wait:"), d.WaitMinutes)
				p.printf("%s %s\n", labelColor.Sprint("$/hour:"), p.fmt.Rate(d.DollarsPerHour, "/hr"))
				p.printf("%s %s\n", labelColor.Sprint("$/mile:"), p.fmt.Rate(d.DollarsPerMile, "/mi"))
				p.warnings(preview.Warnings)
				return nil
			})(cmd, args)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// confirmHint turns an unconfirmed-warnings error into the confirm prompt.
func confirmHint(err error) error {
	var werr *session.WarningsError
	if errors.As(err, &werr) {
		return fmt.Errorf("not saved: %d warning(s); rerun with --force to save anyway", len(werr.Warnings))
	}
	return err
}

func fieldsOf(s session.Session) session.Fields {
	return session.Fields{
		ZoneID:        s.ZoneID,
		TimeBlock:     s.TimeBlock,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Profit:        s.Profit,
		StartMiles:    s.StartMiles,
		EndMiles:      s.EndMiles,
		Orders:        s.Orders,
		DashMinutes:   s.DashMinutes,
		ActiveMinutes: s.ActiveMinutes,
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func zoneLabel(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Unknown"
}

func parseDay(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if strings.TrimSpace(value) == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", value)
	}
	return day, nil
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTime accepts a clock time on day, a local date and time, or RFC 3339.
func parseTime(flag, value string, day time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"15:04", "3:04PM", "3:04pm", "3:04 PM"} {
		if c, err := time.Parse(layout, value); err == nil {
			y, m, d := day.Date()
			return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q: want HH:MM, YYYY-MM-DD HH:MM or RFC 3339", flag, value)
}
