package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastd/internal/model"
)

// internalExpiry is the lifetime of toastd's own notifications.
const internalExpiry = 5000

// Admitter admits a notification payload.
type Admitter interface {
	Add(p model.Payload) (model.Notification, error)
}

type admitFunc func(p model.Payload) (model.Notification, error)

func (f admitFunc) Add(p model.Payload) (model.Notification, error) {
	return f(p)
}

// InternalNotifier shows toasts about toastd's own events, such as a
// configuration reload. The same key is not shown twice within minInterval.
type InternalNotifier struct {
	logger   *slog.Logger
	admitter Admitter

	mu             sync.Mutex
	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	enabled        bool
	now            func() time.Time
}

// NewInternalNotifier creates an enabled notifier admitting into a.
func NewInternalNotifier(a Admitter, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		admitter:       a,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
		now:            time.Now,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows a toast unless disabled or rate-limited. It reports whether
// a notification was admitted.
func (n *InternalNotifier) Notify(key string, typ model.Type, title, description string) bool {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return false
	}
	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "title", title)
		return false
	}
	n.lastNotifyTime[key] = now
	n.mu.Unlock()

	_, err := n.admitter.Add(model.Payload{
		Type:        string(typ),
		Title:       title,
		Description: description,
		Expiry:      internalExpiry,
	})
	if err != nil {
		n.logger.Debug("internal notification dropped", "key", key, "error", err)
		return false
	}
	return true
}

// NotifyConfigReloaded announces a successful configuration reload.
func (n *InternalNotifier) NotifyConfigReloaded() bool {
	return n.Notify(
		"config-reload",
		model.TypeSuccess,
		"Configuration Reloaded",
		"toastd configuration has been successfully reloaded.",
	)
}

// NotifyConfigError announces a rejected configuration.
func (n *InternalNotifier) NotifyConfigError(err error) bool {
	return n.Notify(
		"config-error",
		model.TypeWarning,
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
	)
}
