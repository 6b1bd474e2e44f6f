package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/domain/preference"
)

func newDraftCmd(opts *rootOptions) *cobra.Command {
	draftCmd := &cobra.Command{Use: "draft", Short: "Keep a half-finished session for later"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the saved draft",
		RunE: withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
			d, err := a.Preferences.Draft(ctx)
			if err != nil {
				return err
			}
			p := newPrinter(out, a.Format, a.Calendar.Location)
			if d == nil {
				p.printf("no draft\n")
				return nil
			}
			zones, err := a.Zones.List(ctx, false)
			if err != nil {
				return err
			}
			p.draft(*d, zoneNames(zones))
			return nil
		}),
	}

	flags := &sessionFlags{}
	save := &cobra.Command{
		Use:   "save",
		Short: "Save zone, time block, start time and miles entered so far",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				d := preference.Draft{}
				if current, err := a.Preferences.Draft(ctx); err != nil {
					return err
				} else if current != nil {
					d = *current
				}

				fs := cmd.Flags()
				if fs.Changed("zone") {
					z, err := resolveZone(ctx, a, flags.zone)
					if err != nil {
						return err
					}
					d.ZoneID = z.ID
				}
				if fs.Changed("block") {
					d.TimeBlock = flags.block
				}
				if fs.Changed("start") {
					day, err := parseDay(flags.date, a.Calendar.Location, nowFunc())
					if err != nil {
						return err
					}
					start, err := parseTime("--start", flags.start, day, a.Calendar.Location)
					if err != nil {
						return err
					}
					d.StartTime = &start
				}
				if fs.Changed("start-miles") {
					d.StartMiles = &flags.startMiles
				}
				if fs.Changed("end-miles") {
					d.EndMiles = &flags.endMiles
				}

				_, err := a.Controller(newPrinter(out, a.Format, a.Calendar.Location)).Dispatch(ctx, app.SaveDraft{Draft: d})
				return err
			})(cmd, args)
		},
	}
	fs := save.Flags()
	fs.StringVar(&flags.zone, "zone", "", "zone id or name")
	fs.StringVar(&flags.block, "block", "", "time block")
	fs.StringVar(&flags.date, "date", "", "day for an HH:MM start, YYYY-MM-DD")
	fs.StringVar(&flags.start, "start", "", "start time")
	fs.Float64Var(&flags.startMiles, "start-miles", 0, "odometer at start")
	fs.Float64Var(&flags.endMiles, "end-miles", 0, "odometer at end")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the draft",
		RunE: withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
			_, err := a.Controller(newPrinter(out, a.Format, a.Calendar.Location)).Dispatch(ctx, app.ClearDraft{})
			return err
		}),
	}

	draftCmd.AddCommand(show, save, clearCmd)
	return draftCmd
}
