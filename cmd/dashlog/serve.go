package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/config"
	"github.com/rpggio/dashlog/internal/transport"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		mode string
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or streamable HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if mode != "" {
				cfg.Transport.Mode = mode
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// stdout carries JSON-RPC in stdio mode.
			logWriter := os.Stdout
			if cfg.Transport.Mode == config.TransportStdio {
				logWriter = os.Stderr
			}
			logger, closeLog := newLogger(cfg, logWriter)
			defer closeLog()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			server := app.MCPServer()
			if cfg.Transport.Mode == config.TransportStdio {
				return runStdio(ctx, logger, server)
			}
			return runHTTP(ctx, logger, server, app, cfg)
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "stdio or http (overrides DASHLOG_TRANSPORT)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP listen host")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP listen port")
	return cmd
}

func runStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or the context is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, app *bootstrap.App, cfg config.Config) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(mcpHandler, app.Transfer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
