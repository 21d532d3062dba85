package input

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/metrics"
)

// maxLineSize bounds a single message line.
const maxLineSize = 1024 * 1024

// StdinAdapter reads newline-delimited JSON host messages, one envelope per
// line. Blank lines and lines starting with # are skipped. A line that fails
// to decode or dispatch is logged and reading continues.
type StdinAdapter struct {
	reader  io.Reader
	logger  *slog.Logger
	metrics *metrics.Metrics
	onError func(error)
}

// StdinOption configures a StdinAdapter.
type StdinOption func(*StdinAdapter)

// WithReader reads from r instead of os.Stdin.
func WithReader(r io.Reader) StdinOption {
	return func(a *StdinAdapter) { a.reader = r }
}

// WithLogger sets the adapter's logger.
func WithLogger(l *slog.Logger) StdinOption {
	return func(a *StdinAdapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics counts every decoded message.
func WithMetrics(m *metrics.Metrics) StdinOption {
	return func(a *StdinAdapter) { a.metrics = m }
}

// WithErrorHandler is called for every line that could not be handled.
func WithErrorHandler(fn func(error)) StdinOption {
	return func(a *StdinAdapter) { a.onError = fn }
}

// NewStdinAdapter creates a new StdinAdapter reading from os.Stdin.
func NewStdinAdapter(opts ...StdinOption) *StdinAdapter {
	a := &StdinAdapter{reader: os.Stdin, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Run reads until EOF or ctx is cancelled. Reaching EOF is not an error.
func (a *StdinAdapter) Run(ctx context.Context, h Handler) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.reader)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return &AdapterError{Source: a.Name(), Message: "failed to read input", Err: err}
				}
				a.logger.Debug("input exhausted", "source", a.Name(), "lines", lineNo)
				return nil
			}
			lineNo++
			if err := a.handleLine(ctx, h, line); err != nil {
				a.report(&AdapterError{Source: a.Name(), Line: lineNo, Message: "message rejected", Err: err})
			}
		}
	}
}

func (a *StdinAdapter) handleLine(ctx context.Context, h Handler, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] == '#' {
		return nil
	}

	msg, err := host.ParseMessage(line)
	if err != nil {
		return err
	}
	if a.metrics != nil {
		a.metrics.RecordMessage(a.Name(), string(msg.Type))
	}

	_, err = h.Handle(ctx, msg)
	return err
}

func (a *StdinAdapter) report(err error) {
	var aerr *AdapterError
	if errors.As(err, &aerr) {
		a.logger.Warn("skipping input line", "source", aerr.Source, "line", aerr.Line, "error", aerr.Err)
	}
	if a.onError != nil {
		a.onError(err)
	}
}
