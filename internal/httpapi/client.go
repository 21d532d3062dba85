package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// Client calls a running toastd over its HTTP bridge.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the API rooted at base, e.g. http://127.0.0.1:7777.
func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// ShowNotification sends a notification and returns its id.
func (c *Client) ShowNotification(p model.Payload) (string, error) {
	var out struct {
		Notification model.Notification `json:"notification"`
	}
	if err := c.do(http.MethodPost, "/notifications", p, &out); err != nil {
		return "", err
	}
	return out.Notification.ID, nil
}

// ShowPage makes the page visible.
func (c *Client) ShowPage() error {
	return c.do(http.MethodPost, "/page/show", nil, nil)
}

// ClosePage hides the page.
func (c *Client) ClosePage() error {
	return c.do(http.MethodPost, "/page/close", nil, nil)
}

// KeyPress sends a key press and reports whether it was handled.
func (c *Client) KeyPress(key string) (bool, error) {
	var out struct {
		Handled bool `json:"handled"`
	}
	if err := c.do(http.MethodPost, "/page/key", keyRequest{Key: key}, &out); err != nil {
		return false, err
	}
	return out.Handled, nil
}

// Dismiss removes a notification and reports whether it was present.
func (c *Client) Dismiss(id string) (bool, error) {
	var out struct {
		Removed bool `json:"removed"`
	}
	if err := c.do(http.MethodDelete, "/notifications/"+id, nil, &out); err != nil {
		return false, err
	}
	return out.Removed, nil
}

// Frame fetches the current render frame.
func (c *Client) Frame() (display.Frame, error) {
	var f display.Frame
	if err := c.do(http.MethodGet, "/frame", nil, &f); err != nil {
		return display.Frame{}, err
	}
	return f, nil
}

func (c *Client) do(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
