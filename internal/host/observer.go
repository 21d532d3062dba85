package host

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/toastd/internal/model"
)

// DebugMessage is the message attached to forwarded notification payloads.
const DebugMessage = "[NUI] SHOW_NOTIFICATION received"

// Observer is told about every notification request before it is admitted.
type Observer interface {
	NotificationReceived(ctx context.Context, p model.Payload)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, p model.Payload)

// NotificationReceived calls f(ctx, p).
func (f ObserverFunc) NotificationReceived(ctx context.Context, p model.Payload) {
	f(ctx, p)
}

// DebugLogObserver forwards every notification payload to the host's debugLog
// callback. Failures are logged and otherwise ignored.
type DebugLogObserver struct {
	client  *Client
	logger  *slog.Logger
	onError func(event string, err error)
}

// NewDebugLogObserver creates an observer posting through client.
// onError may be nil.
func NewDebugLogObserver(client *Client, logger *slog.Logger, onError func(event string, err error)) *DebugLogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugLogObserver{client: client, logger: logger, onError: onError}
}

// NotificationReceived implements Observer.
func (o *DebugLogObserver) NotificationReceived(ctx context.Context, p model.Payload) {
	if err := o.client.DebugLog(ctx, DebugMessage, p); err != nil {
		o.logger.Warn("failed to forward debug log", "error", err)
		if o.onError != nil {
			o.onError(EventDebugLog, err)
		}
	}
}
