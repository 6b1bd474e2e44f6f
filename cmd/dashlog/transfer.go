package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/codec"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		formatName string
		outPath    string
		send       bool
		webhookURL string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every session as CSV or JSON",
		RunE: withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
			f, err := codec.ParseFormat(formatName)
			if err != nil {
				return err
			}
			payload, err := a.Transfer.Export(ctx, f)
			if err != nil {
				return err
			}

			if send || webhookURL != "" {
				url := webhookURL
				if url == "" {
					url = a.Config.Webhook.URL
				}
				res, err := a.Transfer.Send(ctx, payload, url)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, okColor.Sprintf("Sent %d sessions: HTTP %d", payload.SessionCount, res.Status))
				if res.Body != "" {
					_, _ = fmt.Fprintln(out, dimColor.Sprint(res.Body))
				}
				return nil
			}

			if outPath == "-" {
				_, err := out.Write(payload.Body)
				return err
			}
			path := outPath
			if path == "" {
				path = payload.Filename
			}
			if err := os.WriteFile(path, payload.Body, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			_, _ = fmt.Fprintln(out, okColor.Sprintf("Exported %d sessions to %s", payload.SessionCount, path))
			return nil
		}),
	}
	cmd.Flags().StringVar(&formatName, "format", "csv", "csv or json")
	cmd.Flags().StringVar(&outPath, "out", "", "output file, - for stdout (defaults to the dated file name)")
	cmd.Flags().BoolVar(&send, "send", false, "POST the export to the configured webhook")
	cmd.Flags().StringVar(&webhookURL, "webhook", "", "POST the export to this URL")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import sessions from a CSV or JSON export; - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			name := formatName
			if name == "" {
				name = strings.TrimPrefix(filepath.Ext(path), ".")
			}
			f, err := codec.ParseFormat(name)
			if err != nil {
				return fmt.Errorf("%w (use --format)", err)
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				file, err := os.Open(path)
				if err != nil {
					return err
				}
				defer file.Close()
				r = file
			}

			return withApp(opts, func(ctx context.Context, a *bootstrap.App, out io.Writer) error {
				res, err := a.Transfer.Import(ctx, f, r)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, okColor.Sprintf("Imported %d sessions (%d zones created, %d reactivated)",
					res.SessionsInserted, res.ZonesCreated, res.ZonesReactivated))
				_, _ = fmt.Fprintln(out, dimColor.Sprintf("batch %s", res.BatchID))
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "", "csv or json (defaults to the file extension)")
	return cmd
}
