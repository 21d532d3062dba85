package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/host"
)

type recordingHandler struct {
	mu   sync.Mutex
	msgs []host.Message
	err  error
}

func (h *recordingHandler) Handle(_ context.Context, msg host.Message) (daemon.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
	return daemon.Result{Handled: true}, h.err
}

func (h *recordingHandler) messages() []host.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]host.Message(nil), h.msgs...)
}

func TestStdinAdapter_Name(t *testing.T) {
	assert.Equal(t, "stdin", NewStdinAdapter().Name())
}

func TestStdinAdapter_Run(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"SHOW_PAGE"}`,
		``,
		`# comment`,
		`{"type":"SHOW_NOTIFICATION","notification":{"type":"error","title":" Disk\u0007full "}}`,
		`{"type":`,
		`{"type":"KEYDOWN","key":"Escape"}`,
	}, "\n")

	var errs []error
	a := NewStdinAdapter(
		WithReader(strings.NewReader(input)),
		WithErrorHandler(func(err error) { errs = append(errs, err) }),
	)
	h := &recordingHandler{}

	require.NoError(t, a.Run(context.Background(), h))

	msgs := h.messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, host.TypeShowPage, msgs[0].Type)
	require.NotNil(t, msgs[1].Notification)
	assert.Equal(t, " Disk\u0007full ", msgs[1].Notification.Title, "text is sanitized on admission, not per transport")
	assert.Equal(t, "Escape", msgs[2].Key)

	require.Len(t, errs, 1)
	var aerr *AdapterError
	require.ErrorAs(t, errs[0], &aerr)
	assert.Equal(t, 5, aerr.Line)
}

func TestStdinAdapter_HandlerErrorsContinue(t *testing.T) {
	input := "{\"type\":\"REBOOT\"}\n{\"type\":\"SHOW_PAGE\"}\n"
	h := &recordingHandler{err: daemon.ErrUnknownMessage}

	count := 0
	a := NewStdinAdapter(WithReader(strings.NewReader(input)), WithErrorHandler(func(err error) {
		assert.ErrorIs(t, err, daemon.ErrUnknownMessage)
		count++
	}))

	require.NoError(t, a.Run(context.Background(), h))
	assert.Len(t, h.messages(), 2)
	assert.Equal(t, 2, count)
}

func TestStdinAdapter_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	a := NewStdinAdapter(WithReader(pr))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, &recordingHandler{}) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestStdinAdapter_ReadError(t *testing.T) {
	a := NewStdinAdapter(WithReader(failingReader{}))
	err := a.Run(context.Background(), &recordingHandler{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter("stdin")
	require.NoError(t, err)
	assert.Equal(t, "stdin", a.Name())

	_, err = NewAdapter("dunst")
	var aerr *AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "dunst", aerr.Source)
}
