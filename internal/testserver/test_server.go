// Package testserver runs a fully wired dashlog MCP server against an
// in-memory store for tests.
package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/bootstrap"
	"github.com/rpggio/dashlog/internal/config"
	"github.com/rpggio/dashlog/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

type TestServer struct {
	App     *bootstrap.App
	Server  *sdkmcp.Server
	Session *sdkmcp.ClientSession
	HTTP    *httptest.Server
}

// New starts a server over a store private to the test and connects a
// client through in-memory transports. configure may adjust the config
// before the app is built.
func New(t *testing.T, configure ...func(*config.Config)) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), seq.Add(1))
	cfg.Time.Zone = "UTC"
	for _, fn := range configure {
		fn(&cfg)
	}

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, nil)
	require.NoError(t, err)

	server := app.MCPServer()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)
	httpServer := httptest.NewServer(transport.NewServer(mcpHandler, app.Transfer, nil))

	t.Cleanup(func() {
		httpServer.Close()
		_ = session.Close()
		_ = serverSession.Wait()
		_ = app.Close()
	})

	return &TestServer{App: app, Server: server, Session: session, HTTP: httpServer}
}

// CallTool calls a tool that must succeed and returns its JSON text content.
func (ts *TestServer) CallTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := ts.call(t, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, text(result))
	return json.RawMessage(text(result))
}

// CallToolError calls a tool that must fail and returns the error text.
func (ts *TestServer) CallToolError(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	result := ts.call(t, name, args)
	require.True(t, result.IsError, "tool %s unexpectedly succeeded", name)
	return text(result)
}

// Decode calls a tool and unmarshals its result into out.
func (ts *TestServer) Decode(t *testing.T, name string, args map[string]any, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(ts.CallTool(t, name, args), out))
}

func (ts *TestServer) call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	result, err := ts.Session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)
	return result
}

func text(result *sdkmcp.CallToolResult) string {
	for _, content := range result.Content {
		if tc, ok := content.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
