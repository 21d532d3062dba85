package dbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/model"
)

const (
	// Interface is the toastd interface name.
	Interface = "io.github.jmylchreest.Toastd"
	// Path is the toastd object path.
	Path = "/io/github/jmylchreest/Toastd"
	// BusName is the bus name to claim.
	BusName = "io.github.jmylchreest.Toastd"
)

// errorName prefixes D-Bus error names returned by toastd.
const errorName = Interface + ".Error"

// Handler receives host messages. *daemon.Dispatcher implements it.
type Handler interface {
	Handle(ctx context.Context, msg host.Message) (daemon.Result, error)
	Frame() display.Frame
}

// emitter sends signals. *dbus.Conn implements it.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Server implements the io.github.jmylchreest.Toastd D-Bus interface.
type Server struct {
	handler Handler
	logger  *slog.Logger

	mu      sync.RWMutex
	conn    *dbus.Conn
	emitter emitter
	running bool
}

// NewServer creates a server routing calls to handler.
func NewServer(handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{handler: handler, logger: logger}
}

// Start connects to the session bus, exports the service and claims the bus name.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}
	if err := conn.Export(introspect.NewIntrospectable(IntrospectNode()), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.conn = conn
	s.emitter = conn
	s.running = true

	s.logger.Info("D-Bus server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		_ = s.conn.Export(nil, Path, Interface)
	}
	s.emitter = nil

	s.logger.Info("D-Bus server stopped")
	return nil
}

// ShowNotification admits a notification from a JSON payload.
// D-Bus method: ShowNotification(s payload) -> s id
func (s *Server) ShowNotification(payload string) (string, *dbus.Error) {
	s.logger.Debug("ShowNotification called")

	var p model.Payload
	if payload != "" {
		var err error
		if p, err = model.ParsePayload([]byte(payload)); err != nil {
			return "", dbusError("InvalidPayload", err)
		}
	}

	res, err := s.handle(host.ShowNotification(p))
	if err != nil {
		return "", err
	}
	return res.Notification.ID, nil
}

// ShowPage makes the page visible.
// D-Bus method: ShowPage()
func (s *Server) ShowPage() *dbus.Error {
	s.logger.Debug("ShowPage called")
	_, err := s.handle(host.ShowPage())
	return err
}

// ClosePage hides the page and notifies the host.
// D-Bus method: ClosePage()
func (s *Server) ClosePage() *dbus.Error {
	s.logger.Debug("ClosePage called")
	_, err := s.handle(host.ClosePage())
	return err
}

// KeyPress forwards a key press to the page.
// D-Bus method: KeyPress(s key) -> b handled
func (s *Server) KeyPress(key string) (bool, *dbus.Error) {
	s.logger.Debug("KeyPress called", "key", key)
	res, err := s.handle(host.KeyDown(key))
	if err != nil {
		return false, err
	}
	return res.Handled, nil
}

// Dismiss removes a notification.
// D-Bus method: Dismiss(s id) -> b removed
func (s *Server) Dismiss(id string) (bool, *dbus.Error) {
	s.logger.Debug("Dismiss called", "id", id)
	res, err := s.handle(host.Dismiss(id))
	if err != nil {
		return false, err
	}
	return res.Handled, nil
}

// Frame returns the current render frame as JSON.
// D-Bus method: Frame() -> s frame
func (s *Server) Frame() (string, *dbus.Error) {
	data, err := json.Marshal(s.handler.Frame())
	if err != nil {
		return "", dbusError("Internal", err)
	}
	return string(data), nil
}

func (s *Server) handle(msg host.Message) (daemon.Result, *dbus.Error) {
	res, err := s.handler.Handle(context.Background(), msg)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, display.ErrStackClosed):
		return res, dbusError("Closed", err)
	default:
		return res, dbusError("Failed", err)
	}
}

func dbusError(name string, err error) *dbus.Error {
	return dbus.NewError(errorName+"."+name, []interface{}{err.Error()})
}

// IntrospectNode describes the exported object.
func IntrospectNode() *introspect.Node {
	return &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: toastdMethods(),
				Signals: toastdSignals(),
			},
		},
	}
}

func toastdMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "ShowNotification",
			Args: []introspect.Arg{
				{Name: "payload", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{Name: "ShowPage"},
		{Name: "ClosePage"},
		{
			Name: "KeyPress",
			Args: []introspect.Arg{
				{Name: "key", Type: "s", Direction: "in"},
				{Name: "handled", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "Dismiss",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "removed", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "Frame",
			Args: []introspect.Arg{
				{Name: "frame", Type: "s", Direction: "out"},
			},
		},
	}
}

func toastdSignals() []introspect.Signal {
	return []introspect.Signal{
		{Name: "PageClosed"},
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "reason", Type: "s"},
			},
		},
	}
}
