package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/transfer"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	format codec.Format
	err    error
}

func (e *stubExporter) Export(_ context.Context, format codec.Format) (*transfer.Payload, error) {
	e.format = format
	if e.err != nil {
		return nil, e.err
	}
	return &transfer.Payload{
		Format:      format,
		Filename:    "dash-log-sessions-2024-03-06.csv",
		ContentType: format.ContentType(),
		Body:        []byte("id,zone\n"),
	}, nil
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(nil, nil, nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_MCPRoute(t *testing.T) {
	var sessionID string
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, _ = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(mcpHandler, nil, nil))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Mcp-Session-Id", "sess1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "sess1", sessionID)
}

func TestHTTPServer_Export(t *testing.T) {
	exporter := &stubExporter{}
	server := httptest.NewServer(NewServer(nil, exporter, nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/export/csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, codec.FormatCSV, exporter.format)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "dash-log-sessions-2024-03-06.csv")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "id,zone\n", string(body))
}

func TestHTTPServer_ExportErrors(t *testing.T) {
	server := httptest.NewServer(NewServer(nil, &stubExporter{err: errors.New("disk gone")}, nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/export/xml")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(server.URL + "/export/json")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
