// Package webhook posts export payloads to a user-supplied URL.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// MaxBodyChars caps how much of a response body is surfaced to the user.
const MaxBodyChars = 300

// DefaultTimeout applies when the client is built with a zero timeout.
const DefaultTimeout = 15 * time.Second

// ErrTransport indicates a network failure or a non-2xx response.
var ErrTransport = errors.New("webhook transport error")

// ErrNoURL indicates a send without a destination.
var ErrNoURL = errors.New("webhook url is required")

// Error carries the failed status (0 for network errors) and the truncated body.
type Error struct {
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("webhook request failed: %v", e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.Status)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.Status, e.Body)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// Result is a successful delivery.
type Result struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// Client sends payloads over HTTP.
type Client struct {
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a webhook client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{http: httpClient, timeout: timeout, logger: logger}
}

// Send POSTs body to url with the given content type. There is no retry.
func (c *Client) Send(ctx context.Context, url, contentType string, body []byte) (*Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrNoURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("webhook send failed", "url", url, "error", err)
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	text := Truncate(string(raw), MaxBodyChars)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("webhook rejected payload", "url", url, "status", resp.StatusCode)
		return nil, &Error{Status: resp.StatusCode, Body: text}
	}

	c.logger.Info("webhook delivered", "url", url, "status", resp.StatusCode, "bytes", len(body))
	return &Result{Status: resp.StatusCode, Body: text}, nil
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
