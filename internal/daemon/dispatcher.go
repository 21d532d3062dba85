package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/metrics"
	"github.com/jmylchreest/toastd/internal/model"
	"github.com/jmylchreest/toastd/internal/shell"
	"github.com/jmylchreest/toastd/internal/theme"
)

// ErrUnknownMessage is returned for messages with an unrecognized type.
var ErrUnknownMessage = errors.New("unknown message type")

// Cue plays a sound for an admitted notification.
type Cue interface {
	Play(typ model.Type) error
}

// Options configures a Dispatcher. Only Config is required.
type Options struct {
	Config    *config.Config
	Notifier  shell.Notifier    // Receives the close event; usually a *host.Client
	Observer  host.Observer     // Told about every notification request; nil disables
	Cue       Cue               // nil disables audio
	Metrics   *metrics.Metrics  // nil disables instrumentation
	Scheduler display.Scheduler // nil uses the wall clock
	Logger    *slog.Logger
}

// Result is the outcome of handling a message.
type Result struct {
	Notification *model.Notification `json:"notification,omitempty"` // Set for SHOW_NOTIFICATION
	Handled      bool                `json:"handled"`
}

// Dispatcher routes host messages to the shell and the stack.
// Creating it mounts the stack; Close unmounts it.
type Dispatcher struct {
	logger   *slog.Logger
	stack    *display.Stack
	shell    *shell.Shell
	observer host.Observer
	cue      Cue
	metrics  *metrics.Metrics
	internal *InternalNotifier

	mu           sync.RWMutex
	onClosed     []display.CloseCallback
	onVisibility []shell.VisibilityCallback
	observersWG  sync.WaitGroup
	closeOnce    sync.Once
}

// New creates a dispatcher with a fresh stack and a hidden shell.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	d := &Dispatcher{
		logger:   logger,
		stack:    display.NewStack(StackOptions(cfg, opts.Scheduler), logger.With("component", "stack")),
		shell:    shell.New(opts.Notifier, logger.With("component", "shell")),
		observer: opts.Observer,
		cue:      opts.Cue,
		metrics:  opts.Metrics,
	}
	d.internal = NewInternalNotifier(admitFunc(d.admit), logger)

	d.stack.SetCloseCallback(d.notificationClosed)
	d.shell.SetVisibilityCallback(d.visibilityChanged)

	return d
}

// StackOptions derives stack options from the configuration.
func StackOptions(cfg *config.Config, sched display.Scheduler) display.Options {
	return display.Options{
		Layout: display.Layout{
			Gap:              cfg.Stack.Gap,
			SecondaryScale:   cfg.Stack.SecondaryScale,
			SecondaryOpacity: cfg.Stack.SecondaryOpacity,
			BaseZIndex:       cfg.Stack.BaseZIndex,
		},
		MaxActive:     cfg.Stack.MaxActive,
		DefaultExpiry: cfg.Stack.DefaultExpiry.Duration(),
		Palette:       theme.NewPalette(cfg.Theme.Colors),
		Scheduler:     sched,
	}
}

// Stack returns the notification stack.
func (d *Dispatcher) Stack() *display.Stack {
	return d.stack
}

// Shell returns the page shell.
func (d *Dispatcher) Shell() *shell.Shell {
	return d.shell
}

// Internal returns the notifier for toastd's own events.
func (d *Dispatcher) Internal() *InternalNotifier {
	return d.internal
}

// OnNotificationClosed registers a callback for notifications leaving the stack.
func (d *Dispatcher) OnNotificationClosed(cb display.CloseCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClosed = append(d.onClosed, cb)
}

// OnVisibilityChanged registers a callback for page visibility changes.
func (d *Dispatcher) OnVisibilityChanged(cb shell.VisibilityCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onVisibility = append(d.onVisibility, cb)
}

// Handle routes a single host message.
func (d *Dispatcher) Handle(ctx context.Context, msg host.Message) (Result, error) {
	switch msg.Type {
	case host.TypeShowNotification:
		var p model.Payload
		if msg.Notification != nil {
			p = *msg.Notification
		}
		n, err := d.ShowNotification(ctx, p)
		if err != nil {
			return Result{}, err
		}
		return Result{Notification: &n, Handled: true}, nil

	case host.TypeShowPage:
		d.shell.Show()
		return Result{Handled: true}, nil

	case host.TypeClosePage:
		d.closePage(ctx)
		return Result{Handled: true}, nil

	case host.TypeKeyDown:
		handled, err := d.shell.HandleKey(ctx, msg.Key)
		if err != nil {
			d.logger.Warn("failed to notify host of page close", "error", err)
		}
		return Result{Handled: handled}, nil

	case host.TypeDismiss:
		return Result{Handled: d.stack.Remove(msg.ID)}, nil

	default:
		d.logger.Warn("ignoring unknown host message", "type", msg.Type)
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// ShowNotification forwards p to the observer and admits it to the stack.
func (d *Dispatcher) ShowNotification(ctx context.Context, p model.Payload) (model.Notification, error) {
	if d.observer != nil {
		d.observersWG.Add(1)
		go func() {
			defer d.observersWG.Done()
			d.observer.NotificationReceived(context.WithoutCancel(ctx), p)
		}()
	}

	return d.admit(p)
}

// admit adds p to the stack and plays its cue.
func (d *Dispatcher) admit(p model.Payload) (model.Notification, error) {
	n, err := d.stack.Add(p)
	if err != nil {
		return model.Notification{}, err
	}

	if d.cue != nil {
		if err := d.cue.Play(n.Type); err != nil {
			d.logger.Debug("failed to play notification sound", "type", n.Type, "error", err)
		}
	}
	if d.metrics != nil {
		d.metrics.RecordAdmitted(string(n.Type), d.stack.Len())
	}

	d.logger.Info("notification shown", "id", n.ID, "type", n.Type, "title", n.Title)
	return n, nil
}

func (d *Dispatcher) closePage(ctx context.Context) {
	if err := d.shell.Close(ctx); err != nil {
		d.logger.Warn("failed to notify host of page close", "error", err)
	}
}

// Frame returns the current render frame including page visibility.
func (d *Dispatcher) Frame() display.Frame {
	f := d.stack.Frame()
	f.Visible = d.shell.Visible()
	return f
}

// ApplyConfig updates the stack, theme and audio from a reloaded configuration.
func (d *Dispatcher) ApplyConfig(cfg *config.Config) {
	opts := StackOptions(cfg, nil)
	d.stack.SetLayout(opts.Layout)
	d.stack.SetPalette(opts.Palette)
	d.stack.SetDefaultExpiry(opts.DefaultExpiry)
	d.stack.SetMaxActive(opts.MaxActive)

	if u, ok := d.cue.(interface{ UpdateConfig(config.AudioConfig) }); ok {
		u.UpdateConfig(cfg.Audio)
	}
	d.logger.Debug("configuration applied",
		"gap", cfg.Stack.Gap,
		"max_active", cfg.Stack.MaxActive,
		"default_expiry", cfg.Stack.DefaultExpiry.Duration(),
	)
}

// Reload applies cfg and posts an internal notification about it.
func (d *Dispatcher) Reload(cfg *config.Config) {
	d.ApplyConfig(cfg)
	d.internal.NotifyConfigReloaded()
}

// ReloadFailed posts an internal notification about a rejected configuration.
func (d *Dispatcher) ReloadFailed(err error) {
	d.internal.NotifyConfigError(err)
}

// Close unmounts the stack, cancelling every pending expiry, and waits
// for in-flight observer calls.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.stack.Close()
		d.observersWG.Wait()
	})
}

// Wait blocks until in-flight observer calls are done.
func (d *Dispatcher) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.observersWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (d *Dispatcher) notificationClosed(n model.Notification, reason display.CloseReason) {
	if d.metrics != nil {
		d.metrics.RecordRemoved(reason.String(), d.stack.Len())
	}
	d.logger.Debug("notification closed", "id", n.ID, "reason", reason.String())

	d.mu.RLock()
	cbs := append([]display.CloseCallback(nil), d.onClosed...)
	d.mu.RUnlock()
	for _, cb := range cbs {
		cb(n, reason)
	}
}

func (d *Dispatcher) visibilityChanged(visible bool) {
	if d.metrics != nil {
		d.metrics.RecordVisibility(visible)
	}

	d.mu.RLock()
	cbs := append([]shell.VisibilityCallback(nil), d.onVisibility...)
	d.mu.RUnlock()
	for _, cb := range cbs {
		cb(visible)
	}
}
