// Package host talks to the engine embedding the page: the inbound message
// envelope and the outbound NUI-style HTTP callbacks.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Outbound callback events.
const (
	EventClose    = "close"
	EventDebugLog = "debugLog"
)

// ContentType is sent with every callback.
const ContentType = "application/json; charset=UTF-8"

// DefaultTimeout bounds a single callback request.
const DefaultTimeout = 2 * time.Second

// ErrNoCallbackBase is returned when no callback base URL is configured.
var ErrNoCallbackBase = errors.New("no host callback base configured")

// CallbackError describes a failed callback.
type CallbackError struct {
	Event      string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *CallbackError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("host callback %s failed: status %d", e.Event, e.StatusCode)
	}
	return fmt.Sprintf("host callback %s failed: %v", e.Event, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}

// ResultCallback is told the outcome of every callback.
type ResultCallback func(event string, err error, duration time.Duration)

// Client posts events to <base>/<event>.
type Client struct {
	base       string
	httpClient *http.Client
	logger     *slog.Logger
	onResult   ResultCallback
}

// NewClient creates a callback client for the given base URL.
func NewClient(base string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SetResultCallback sets the callback invoked after every Send.
func (c *Client) SetResultCallback(cb ResultCallback) {
	c.onResult = cb
}

// Base returns the callback base URL.
func (c *Client) Base() string {
	return c.base
}

// Send posts payload as JSON to <base>/<event>. A nil payload is sent as {}.
// Callbacks are fire-and-forget on the host side; failures are not retried.
func (c *Client) Send(ctx context.Context, event string, payload any) error {
	start := time.Now()
	err := c.send(ctx, event, payload)
	if c.onResult != nil {
		c.onResult(event, err, time.Since(start))
	}
	return err
}

func (c *Client) send(ctx context.Context, event string, payload any) error {
	if c.base == "" {
		return ErrNoCallbackBase
	}
	if payload == nil {
		payload = struct{}{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &CallbackError{Event: event, Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+event, bytes.NewReader(body))
	if err != nil {
		return &CallbackError{Event: event, Err: err}
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &CallbackError{Event: event, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("host callback sent",
		"event", event,
		"status", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &CallbackError{Event: event, StatusCode: resp.StatusCode}
	}
	return nil
}

// Close tells the host the page closed.
func (c *Client) Close(ctx context.Context) error {
	return c.Send(ctx, EventClose, nil)
}

// DebugLog forwards a message and arbitrary data to the host's debug log.
func (c *Client) DebugLog(ctx context.Context, message string, data any) error {
	return c.Send(ctx, EventDebugLog, DebugLogPayload{Message: message, Data: data})
}

// DebugLogPayload is the body of the debugLog event.
type DebugLogPayload struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}
