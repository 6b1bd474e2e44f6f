package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/transfer"
)

// Exporter produces export downloads.
type Exporter interface {
	Export(ctx context.Context, format codec.Format) (*transfer.Payload, error)
}

// Server wires HTTP handlers.
type Server struct {
	exporter Exporter
	logger   *slog.Logger
}

// NewServer creates the HTTP router: the MCP endpoint, export downloads and
// a health check. exporter may be nil to disable downloads.
func NewServer(mcpHandler http.Handler, exporter Exporter, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{exporter: exporter, logger: logger}

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Use(LoggingMiddleware(logger))

	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}
	r.Get("/health", srv.handleHealth)
	if exporter != nil {
		r.Get("/export/{format}", srv.handleExport)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := codec.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	payload, err := s.exporter.Export(r.Context(), format)
	if err != nil {
		s.logger.Error("export failed", "format", format, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "export failed", status)
		return
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload.Body)
}
