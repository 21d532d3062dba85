package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/host"
)

type fakeBackend struct {
	mu    sync.Mutex
	frame display.Frame
	sent  []host.Message
	err   error
}

func (b *fakeBackend) Frame() (display.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame, b.err
}

func (b *fakeBackend) Send(msg host.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, msg)
	return b.err
}

func (b *fakeBackend) messages() []host.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]host.Message(nil), b.sent...)
}

func newLocal(t *testing.T) (*LocalBackend, *daemon.Dispatcher) {
	t.Helper()
	sched := display.NewManualScheduler(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	d := daemon.New(daemon.Options{Config: config.DefaultConfig(), Scheduler: sched})
	t.Cleanup(d.Close)
	return NewLocalBackend(d), d
}

// drive applies msg and runs the resulting command once, feeding its
// message back into the model.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, isBatch := out.(tea.BatchMsg); !isBatch {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ready(t *testing.T, b Backend) Model {
	t.Helper()
	m := drive(t, New(b), tea.WindowSizeMsg{Width: 160, Height: 40})
	return drive(t, m, m.fetchFrame())
}

func TestModel_SendSampleAndDismiss(t *testing.T) {
	b, d := newLocal(t)
	m := ready(t, b)

	m = drive(t, m, keyPress("n"))
	m = drive(t, m, keyPress("n"))
	m = drive(t, m, m.fetchFrame())

	require.Len(t, m.frame.Items, 2)
	assert.Equal(t, "Sample warning #2", m.frame.Items[0].Notification.Title)
	assert.Equal(t, "Sample success #1", m.frame.Items[1].Notification.Title)

	m = drive(t, m, keyPress("right"))
	assert.Equal(t, 1, m.selected)
	older := m.frame.Items[1].Notification.ID

	m = drive(t, m, keyPress("d"))
	m = drive(t, m, m.fetchFrame())
	require.Equal(t, 1, d.Stack().Len())
	_, ok := d.Stack().Get(older)
	assert.False(t, ok)
	assert.Equal(t, 0, m.selected)
}

func TestModel_PageKeys(t *testing.T) {
	b, d := newLocal(t)
	m := ready(t, b)

	m = drive(t, m, keyPress("o"))
	assert.True(t, d.Shell().Visible())

	m = drive(t, m, keyPress("esc"))
	assert.False(t, d.Shell().Visible())
}

func TestModel_SelectionFollowsID(t *testing.T) {
	b := &fakeBackend{}
	m := ready(t, b)

	a := display.Item{}
	a.Notification.ID = "a"
	c := display.Item{}
	c.Notification.ID = "c"
	m = drive(t, m, frameMsg{frame: display.Frame{Items: []display.Item{a, c}}})
	m = drive(t, m, keyPress("right"))
	require.Equal(t, "c", m.selectedID())

	n := display.Item{}
	n.Notification.ID = "n"
	m = drive(t, m, frameMsg{frame: display.Frame{Items: []display.Item{n, a, c}}})
	assert.Equal(t, "c", m.selectedID())

	m = drive(t, m, keyPress("d"))
	sent := b.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, host.Dismiss("c"), sent[0])
}

func TestModel_DetailMode(t *testing.T) {
	b, _ := newLocal(t)
	m := ready(t, b)
	m = drive(t, m, keyPress("n"))
	m = drive(t, m, m.fetchFrame())

	m = drive(t, m, keyPress("enter"))
	assert.Equal(t, ModeDetail, m.mode)
	assert.Contains(t, m.View(), "Notification Detail")

	m = drive(t, m, keyPress("esc"))
	assert.Equal(t, ModeStack, m.mode)
}

func TestModel_Help(t *testing.T) {
	m := ready(t, &fakeBackend{})
	m = drive(t, m, keyPress("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = drive(t, m, keyPress("?"))
	assert.Equal(t, ModeStack, m.mode)
}

func TestModel_BackendError(t *testing.T) {
	b := &fakeBackend{err: errors.New("daemon gone")}
	m := ready(t, b)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "daemon gone")
}

func TestModel_Quit(t *testing.T) {
	m := ready(t, &fakeBackend{})
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewStack(t *testing.T) {
	b, _ := newLocal(t)
	m := ready(t, b)
	assert.Contains(t, m.View(), "No notifications")

	for i := 0; i < 3; i++ {
		m = drive(t, m, keyPress("n"))
	}
	m = drive(t, m, m.fetchFrame())

	view := m.View()
	assert.Contains(t, view, "page hidden · 3 active")
	assert.Contains(t, view, "Sample error #3")

	// The front item is in the middle: the index 1 item (left) comes first.
	left := strings.Index(view, "Sample warning #2")
	front := strings.Index(view, "Sample error #3")
	right := strings.Index(view, "Sample success #1")
	assert.Less(t, left, front)
	assert.Less(t, front, right)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, 10, lipgloss.Width(progressBar(0.5, 10, "#22c55e")))
	assert.Empty(t, progressBar(1, 0, "#22c55e"))
}

func TestBuildKeybindBar(t *testing.T) {
	m := New(&fakeBackend{})

	full := m.buildKeybindBar(0, "stack")
	assert.Contains(t, full, "quit")
	assert.Contains(t, full, "copy")

	narrow := m.buildKeybindBar(20, "stack")
	assert.Contains(t, narrow, "quit")
	assert.NotContains(t, narrow, "copy")
	assert.LessOrEqual(t, lipgloss.Width(narrow), 20)
}

func TestSamplePayload(t *testing.T) {
	assert.Equal(t, "success", samplePayload(0).Type)
	assert.Equal(t, "info", samplePayload(3).Type)
	assert.Equal(t, "success", samplePayload(4).Type)
}

func TestDetectClipboardCommand(t *testing.T) {
	assert.Equal(t, "my-copy --in", detectClipboardCommand("my-copy --in"))

	t.Setenv("PATH", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	assert.Empty(t, detectClipboardCommand(""))
	assert.ErrorIs(t, copyText("x", ""), errNoClipboard)
}
