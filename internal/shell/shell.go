// Package shell tracks the visibility of the page and tells the host when it closes.
package shell

import (
	"context"
	"log/slog"
	"sync"
)

// KeyEscape closes the page while it is visible.
const KeyEscape = "Escape"

// Notifier delivers the close event to the host.
type Notifier interface {
	Close(ctx context.Context) error
}

// VisibilityCallback is called after every visibility transition request.
type VisibilityCallback func(visible bool)

// Shell is the page's visibility state. It starts hidden and owns no
// notification data.
type Shell struct {
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	visible  bool
	onChange VisibilityCallback
}

// New creates a hidden shell. notifier may be nil when no host is attached.
func New(notifier Notifier, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{notifier: notifier, logger: logger}
}

// SetVisibilityCallback sets the callback for visibility changes.
func (s *Shell) SetVisibilityCallback(cb VisibilityCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = cb
}

// Show makes the page visible.
func (s *Shell) Show() {
	s.mu.Lock()
	s.visible = true
	cb := s.onChange
	s.mu.Unlock()

	s.logger.Debug("page shown")
	if cb != nil {
		cb(true)
	}
}

// Close hides the page and emits the close event to the host.
// The host is notified even if the page was already hidden.
func (s *Shell) Close(ctx context.Context) error {
	s.mu.Lock()
	s.visible = false
	cb := s.onChange
	s.mu.Unlock()

	s.logger.Debug("page closed")
	if cb != nil {
		cb(false)
	}

	if s.notifier == nil {
		return nil
	}
	return s.notifier.Close(ctx)
}

// HandleKey closes the page when Escape is pressed while it is visible.
// It reports whether the key was handled.
func (s *Shell) HandleKey(ctx context.Context, key string) (bool, error) {
	if key != KeyEscape || !s.Visible() {
		return false, nil
	}
	return true, s.Close(ctx)
}

// Visible reports whether the page is visible.
func (s *Shell) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}
