package main

import (
	"fmt"
	"time"

	"github.com/jmylchreest/toastd/internal/dbus"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/httpapi"
	"github.com/jmylchreest/toastd/internal/model"
)

// toastd is the set of calls toastctl makes. Both *dbus.Client and
// *httpapi.Client implement it.
type toastd interface {
	ShowNotification(p model.Payload) (string, error)
	ShowPage() error
	ClosePage() error
	KeyPress(key string) (bool, error)
	Dismiss(id string) (bool, error)
	Frame() (display.Frame, error)
}

// connect returns a client for the transport selected by the global flags.
func connect() (toastd, error) {
	if globalOpts.httpAddr != "" {
		timeout, err := time.ParseDuration(globalOpts.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
		return httpapi.NewClient(globalOpts.httpAddr, timeout), nil
	}

	c, err := dbus.NewClient()
	if err != nil {
		return nil, fmt.Errorf("toastd not reachable over D-Bus (try --http): %w", err)
	}
	return c, nil
}

// remoteBackend adapts a toastd client to the preview's Backend.
type remoteBackend struct {
	client toastd
}

func (b remoteBackend) Frame() (display.Frame, error) {
	return b.client.Frame()
}

func (b remoteBackend) Send(msg host.Message) error {
	switch msg.Type {
	case host.TypeShowNotification:
		var p model.Payload
		if msg.Notification != nil {
			p = *msg.Notification
		}
		_, err := b.client.ShowNotification(p)
		return err
	case host.TypeShowPage:
		return b.client.ShowPage()
	case host.TypeClosePage:
		return b.client.ClosePage()
	case host.TypeKeyDown:
		_, err := b.client.KeyPress(msg.Key)
		return err
	case host.TypeDismiss:
		_, err := b.client.Dismiss(msg.ID)
		return err
	default:
		return fmt.Errorf("unsupported message type %q", msg.Type)
	}
}
