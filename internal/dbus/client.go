package dbus

import (
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// Client calls a running toastd over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn, obj: conn.Object(BusName, Path)}, nil
}

// ShowNotification sends a notification and returns its id.
func (c *Client) ShowNotification(p model.Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	var id string
	if err := c.obj.Call(Interface+".ShowNotification", 0, string(data)).Store(&id); err != nil {
		return "", fmt.Errorf("ShowNotification failed: %w", err)
	}
	return id, nil
}

// ShowPage makes the page visible.
func (c *Client) ShowPage() error {
	if err := c.obj.Call(Interface+".ShowPage", 0).Err; err != nil {
		return fmt.Errorf("ShowPage failed: %w", err)
	}
	return nil
}

// ClosePage hides the page.
func (c *Client) ClosePage() error {
	if err := c.obj.Call(Interface+".ClosePage", 0).Err; err != nil {
		return fmt.Errorf("ClosePage failed: %w", err)
	}
	return nil
}

// KeyPress sends a key press and reports whether it was handled.
func (c *Client) KeyPress(key string) (bool, error) {
	var handled bool
	if err := c.obj.Call(Interface+".KeyPress", 0, key).Store(&handled); err != nil {
		return false, fmt.Errorf("KeyPress failed: %w", err)
	}
	return handled, nil
}

// Dismiss removes a notification and reports whether it was present.
func (c *Client) Dismiss(id string) (bool, error) {
	var removed bool
	if err := c.obj.Call(Interface+".Dismiss", 0, id).Store(&removed); err != nil {
		return false, fmt.Errorf("Dismiss failed: %w", err)
	}
	return removed, nil
}

// Frame fetches the current render frame.
func (c *Client) Frame() (display.Frame, error) {
	var raw string
	if err := c.obj.Call(Interface+".Frame", 0).Store(&raw); err != nil {
		return display.Frame{}, fmt.Errorf("Frame failed: %w", err)
	}

	var f display.Frame
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return display.Frame{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	return f, nil
}
