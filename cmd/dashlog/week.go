package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/bootstrap"
)

func newWeekCmd(opts *rootOptions) *cobra.Command {
	var (
		offset  int
		history bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show weekly totals",
		RunE: withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
			p := newPrinter(out, a.Format, a.Calendar.Location)
			if history {
				weeks, err := a.Summary.History(ctx, limit)
				if err != nil {
					return err
				}
				if len(weeks) == 0 {
					p.printf("no sessions\n")
				}
				for _, t := range weeks {
					p.totals(t)
				}
				return nil
			}

			state, err := a.Controller(p).Dispatch(ctx, app.ShiftWeek{Weeks: offset})
			if err != nil {
				return err
			}
			sessions, err := a.Sessions.ListWeek(ctx, state.ActiveWeek)
			if err != nil {
				return err
			}
			names := zoneNames(state.Zones)
			for _, s := range sessions {
				p.sessionLine(s, zoneLabel(names, s.ZoneID))
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks from the current week, negative is earlier")
	cmd.Flags().BoolVar(&history, "history", false, "list every week with sessions, newest first")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum weeks with --history (0 is all)")
	return cmd
}
