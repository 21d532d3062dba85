package tui

import (
	"context"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
)

// Handler is an in-process dispatcher. *daemon.Dispatcher implements it.
type Handler interface {
	Handle(ctx context.Context, msg host.Message) (daemon.Result, error)
	Frame() display.Frame
}

// LocalBackend drives an in-process dispatcher, for previews without a daemon.
type LocalBackend struct {
	handler Handler
}

// NewLocalBackend wraps h as a Backend.
func NewLocalBackend(h Handler) *LocalBackend {
	return &LocalBackend{handler: h}
}

// Frame returns the dispatcher's current frame.
func (b *LocalBackend) Frame() (display.Frame, error) {
	return b.handler.Frame(), nil
}

// Send hands msg to the dispatcher.
func (b *LocalBackend) Send(msg host.Message) error {
	_, err := b.handler.Handle(context.Background(), msg)
	return err
}
