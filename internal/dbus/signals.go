package dbus

import (
	"fmt"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/model"
)

// Signal names.
const (
	SignalPageClosed         = Interface + ".PageClosed"
	SignalNotificationClosed = Interface + ".NotificationClosed"
)

// EmitPageClosed emits the PageClosed signal.
func (s *Server) EmitPageClosed() error {
	s.mu.RLock()
	e := s.emitter
	s.mu.RUnlock()

	if e == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := e.Emit(Path, SignalPageClosed); err != nil {
		return fmt.Errorf("failed to emit PageClosed signal: %w", err)
	}

	s.logger.Debug("emitted PageClosed signal")
	return nil
}

// EmitNotificationClosed emits the NotificationClosed signal.
func (s *Server) EmitNotificationClosed(id string, reason display.CloseReason) error {
	s.mu.RLock()
	e := s.emitter
	s.mu.RUnlock()

	if e == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := e.Emit(Path, SignalNotificationClosed, id, reason.String()); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// Attach subscribes the server's signals to the dispatcher's events.
func (s *Server) Attach(d *daemon.Dispatcher) {
	d.OnNotificationClosed(func(n model.Notification, reason display.CloseReason) {
		if err := s.EmitNotificationClosed(n.ID, reason); err != nil {
			s.logger.Debug("NotificationClosed not emitted", "id", n.ID, "error", err)
		}
	})
	d.OnVisibilityChanged(func(visible bool) {
		if visible {
			return
		}
		if err := s.EmitPageClosed(); err != nil {
			s.logger.Debug("PageClosed not emitted", "error", err)
		}
	})
}
