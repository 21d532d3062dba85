// Package input provides input adapters that feed host messages to the dispatcher.
package input

import (
	"context"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/host"
)

// Handler receives decoded host messages. *daemon.Dispatcher implements it.
type Handler interface {
	Handle(ctx context.Context, msg host.Message) (daemon.Result, error)
}

// InputAdapter reads host messages from a source until it is exhausted
// or ctx is cancelled.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin").
	Name() string

	// Run decodes messages and hands each one to h.
	Run(ctx context.Context, h Handler) error
}

// NewAdapter creates an InputAdapter for the specified source.
func NewAdapter(source string, opts ...StdinOption) (InputAdapter, error) {
	switch source {
	case "stdin", "-":
		return NewStdinAdapter(opts...), nil
	default:
		return nil, &AdapterError{
			Source:  source,
			Message: "unknown or unavailable adapter",
		}
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Line    int // 0 when the error is not tied to a line
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	msg := e.Source + ": " + e.Message
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
