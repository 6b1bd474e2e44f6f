package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/domain/zone"
)

func newZoneCmd(opts *rootOptions) *cobra.Command {
	zoneCmd := &cobra.Command{Use: "zone", Short: "Manage work zones"}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List zones",
		RunE: withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
			zones, err := a.Zones.List(ctx, !all)
			if err != nil {
				return err
			}
			newPrinter(out, a.Format, a.Calendar.Location).zones(zones)
			return nil
		}),
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive zones")

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a zone",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				_, err := a.Controller(newPrinter(out, a.Format, a.Calendar.Location)).Dispatch(ctx, app.AddZone{Name: name})
				return err
			})(cmd, args)
		},
	}

	rename := &cobra.Command{
		Use:   "rename <zone> <new name>",
		Short: "Rename a zone",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				z, err := resolveZone(ctx, a, args[0])
				if err != nil {
					return err
				}
				renamed, err := a.Zones.Rename(ctx, z.ID, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, okColor.Sprintf("Zone %s renamed to %s.", z.Name, renamed.Name))
				return nil
			})(cmd, args)
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <zone>",
		Short: "Hide a zone from new sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				z, err := resolveZone(ctx, a, args[0])
				if err != nil {
					return err
				}
				_, err = a.Controller(newPrinter(out, a.Format, a.Calendar.Location)).Dispatch(ctx, app.DeactivateZone{ID: z.ID})
				return err
			})(cmd, args)
		},
	}

	reactivate := &cobra.Command{
		Use:   "reactivate <zone>",
		Short: "Make a zone selectable again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				z, err := resolveZone(ctx, a, args[0])
				if err != nil {
					return err
				}
				_, err = a.Controller(newPrinter(out, a.Format, a.Calendar.Location)).Dispatch(ctx, app.ReactivateZone{ID: z.ID})
				return err
			})(cmd, args)
		},
	}

	zoneCmd.AddCommand(list, add, rename, deactivate, reactivate)
	return zoneCmd
}

// resolveZone accepts a zone id or a name matched ignoring case.
func resolveZone(ctx context.Context, a *bootstrap.App, ref string) (*zone.Zone, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.Zones.Get(ctx, id)
	}
	zones, err := a.Zones.List(ctx, false)
	if err != nil {
		return nil, err
	}
	name := zone.NormalizeName(ref)
	for i := range zones {
		if strings.EqualFold(zones[i].Name, name) {
			return &zones[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", zone.ErrZoneNotFound, name)
}
