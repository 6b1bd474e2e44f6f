package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

// nowFunc is the clock used for relative dates.
var nowFunc = time.Now

type rootOptions struct {
	dbPath   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dashlog",
		Short:         "Log delivery work sessions and see weekly earnings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides DASHLOG_DB_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newZoneCmd(opts))
	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newWeekCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newDraftCmd(opts))
	root.AddCommand(newActivityCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if opts.dbPath != "" {
		cfg.DB.Path = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// loadApp builds the app for a one-shot command. Logs go to stderr, or to
// DASHLOG_LOG_PATH when set, so command output stays clean.
func loadApp(ctx context.Context, opts *rootOptions) (*bootstrap.App, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog := newLogger(cfg, os.Stderr)
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return app, func() {
		_ = app.Close()
		closeLog()
	}, nil
}

// withApp runs fn against a freshly loaded app and closes it afterwards.
func withApp(opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		app, closeApp, err := loadApp(ctx, opts)
		if err != nil {
			return err
		}
		defer closeApp()
		return fn(ctx, app, cmd.OutOrStdout())
	}
}

func newLogger(cfg config.Config, fallback io.Writer) (*slog.Logger, func()) {
	writer := fallback
	closeLog := func() {}
	if logPath := os.Getenv("DASHLOG_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			writer = fileWriter
			closeLog = func() { _ = file.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeLog
}
