package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/domain/activity"
)

func newActivityCmd(opts *rootOptions) *cobra.Command {
	var (
		limit   int
		typeArg string
	)
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes",
		RunE: withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
			listOpts := activity.ListActivityOptions{Limit: limit}
			if typeArg != "" {
				t := activity.ActivityType(typeArg)
				listOpts.ActivityType = &t
			}
			entries, err := a.Activity.GetRecentActivity(ctx, listOpts)
			if err != nil {
				return err
			}
			p := newPrinter(out, a.Format, a.Calendar.Location)
			if len(entries) == 0 {
				p.printf("no activity\n")
				return nil
			}
			for _, e := range entries {
				p.printf("%s  %s  %s\n",
					dimColor.Sprint(e.CreatedAt.In(p.loc).Format("2006-01-02 15:04")),
					labelColor.Sprintf("%-16s", e.ActivityType),
					e.Summary,
				)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	cmd.Flags().StringVar(&typeArg, "type", "", "only this type, e.g. session_logged")
	return cmd
}
