package display

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastd/internal/model"
	"github.com/jmylchreest/toastd/internal/theme"
)

// DefaultMaxActive leaves the active sequence unbounded. A positive cap is
// opt-in and evicts the oldest item on overflow.
const DefaultMaxActive = 0

// ErrStackClosed is returned when admitting into a stack that was torn down.
var ErrStackClosed = errors.New("notification stack is closed")

// CloseCallback is called when a notification leaves the active sequence.
// It runs outside the stack lock and may call back into the stack.
type CloseCallback func(n model.Notification, reason CloseReason)

// Options configures a Stack. Zero values select the defaults.
type Options struct {
	Layout        Layout
	MaxActive     int // 0 = unbounded
	DefaultExpiry time.Duration
	Palette       theme.Palette
	Scheduler     Scheduler
}

// DefaultOptions returns Options with the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Layout:        DefaultLayout(),
		MaxActive:     DefaultMaxActive,
		DefaultExpiry: model.DefaultExpiry,
		Palette:       theme.DefaultPalette(),
		Scheduler:     SystemScheduler,
	}
}

type entry struct {
	n     model.Notification
	timer Timer
}

// Stack is the newest-first active notification sequence.
// Each admitted notification owns exactly one expiry timer, stopped
// when the notification leaves the sequence for any other reason.
type Stack struct {
	logger *slog.Logger
	sched  Scheduler

	mu            sync.Mutex
	items         []*entry // index 0 is the newest
	layout        Layout
	maxActive     int
	defaultExpiry time.Duration
	palette       theme.Palette
	closed        bool
	onClose       CloseCallback
}

// NewStack creates an empty stack.
func NewStack(opts Options, logger *slog.Logger) *Stack {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler
	}
	if opts.Layout == (Layout{}) {
		opts.Layout = DefaultLayout()
	}
	if opts.DefaultExpiry <= 0 {
		opts.DefaultExpiry = model.DefaultExpiry
	}
	if opts.Palette == nil {
		opts.Palette = theme.DefaultPalette()
	}
	if opts.MaxActive < 0 {
		opts.MaxActive = 0
	}

	return &Stack{
		logger:        logger,
		sched:         opts.Scheduler,
		layout:        opts.Layout,
		maxActive:     opts.MaxActive,
		defaultExpiry: opts.DefaultExpiry,
		palette:       opts.Palette.Clone(),
	}
}

// SetCloseCallback sets the callback for notifications leaving the stack.
func (s *Stack) SetCloseCallback(cb CloseCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = cb
}

// Add admits a notification built from p: it gets a fresh id, becomes the
// front item and schedules its own removal after its expiry.
// When the stack is over capacity the oldest items are evicted.
func (s *Stack) Add(p model.Payload) (model.Notification, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Notification{}, ErrStackClosed
	}

	now := s.sched.Now()
	n := p.Normalize(s.defaultExpiry)
	id, err := model.NewID(now)
	if err != nil {
		s.mu.Unlock()
		return model.Notification{}, fmt.Errorf("failed to admit notification: %w", err)
	}
	n.ID = id
	n.CreatedAt = now
	n.ExpiresAt = now.Add(n.ExpiryDuration())

	e := &entry{n: n}
	e.timer = s.sched.AfterFunc(n.ExpiryDuration(), func() {
		s.remove(id, ReasonExpired)
	})
	s.items = append([]*entry{e}, s.items...)

	var evicted []model.Notification
	for s.maxActive > 0 && len(s.items) > s.maxActive {
		evicted = append(evicted, s.popOldestLocked().n)
	}
	cb := s.onClose
	count := len(s.items)
	s.mu.Unlock()

	s.logger.Debug("notification admitted",
		"id", n.ID,
		"type", n.Type,
		"expiry_ms", n.Expiry,
		"active", count,
	)

	for _, old := range evicted {
		s.logger.Debug("notification evicted", "id", old.ID, "max_active", s.MaxActive())
		if cb != nil {
			cb(old, ReasonEvicted)
		}
	}

	return n, nil
}

// Remove removes the notification with the given id and cancels its timer.
// Removing an absent id is a no-op and returns false.
func (s *Stack) Remove(id string) bool {
	return s.remove(id, ReasonDismissed)
}

func (s *Stack) remove(id string, reason CloseReason) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	e := s.items[idx]
	e.timer.Stop()
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	cb := s.onClose
	s.mu.Unlock()

	s.logger.Debug("notification removed", "id", id, "reason", reason.String())

	if cb != nil {
		cb(e.n, reason)
	}
	return true
}

// Clear removes every notification with the given reason, newest first.
func (s *Stack) Clear(reason CloseReason) int {
	s.mu.Lock()
	items := s.items
	s.items = nil
	for _, e := range items {
		e.timer.Stop()
	}
	cb := s.onClose
	s.mu.Unlock()

	if cb != nil {
		for _, e := range items {
			cb(e.n, reason)
		}
	}
	return len(items)
}

// Close tears the stack down. Every pending timer is cancelled and
// later admissions fail with ErrStackClosed. Close is idempotent.
func (s *Stack) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	n := s.Clear(ReasonCleared)
	s.logger.Debug("notification stack closed", "cleared", n)
}

// Closed reports whether Close has been called.
func (s *Stack) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Items returns a snapshot of the active sequence, newest first.
func (s *Stack) Items() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.items))
	for i, e := range s.items {
		out[i] = e.n
	}
	return out
}

// Get returns the active notification with the given id.
func (s *Stack) Get(id string) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx].n, true
	}
	return model.Notification{}, false
}

// Len returns the number of active notifications.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Frame computes the render parameters of every active notification.
func (s *Stack) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.sched.Now()
	f := Frame{
		GeneratedAt: now,
		Items:       make([]Item, len(s.items)),
	}
	for i, e := range s.items {
		f.Items[i] = Item{
			Notification: e.n,
			Placement:    s.layout.Place(i),
			Style:        s.palette.Resolve(e.n),
			Remaining:    e.n.Remaining(now),
		}
	}
	return f
}

// SetLayout replaces the placement parameters.
func (s *Stack) SetLayout(l Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = l
}

// SetPalette replaces the color presets.
func (s *Stack) SetPalette(p theme.Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = p.Clone()
}

// SetDefaultExpiry changes the expiry used for payloads without one.
// Already admitted notifications keep their timers.
func (s *Stack) SetDefaultExpiry(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultExpiry = d
}

// SetMaxActive changes the capacity, evicting the oldest items if the
// stack is now over it. 0 means unbounded.
func (s *Stack) SetMaxActive(max int) {
	if max < 0 {
		max = 0
	}

	s.mu.Lock()
	s.maxActive = max
	var evicted []model.Notification
	for max > 0 && len(s.items) > max {
		evicted = append(evicted, s.popOldestLocked().n)
	}
	cb := s.onClose
	s.mu.Unlock()

	if cb != nil {
		for _, n := range evicted {
			cb(n, ReasonEvicted)
		}
	}
}

// MaxActive returns the current capacity.
func (s *Stack) MaxActive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxActive
}

func (s *Stack) popOldestLocked() *entry {
	last := len(s.items) - 1
	e := s.items[last]
	e.timer.Stop()
	s.items[last] = nil
	s.items = s.items[:last]
	return e
}

func (s *Stack) indexLocked(id string) int {
	for i, e := range s.items {
		if e.n.ID == id {
			return i
		}
	}
	return -1
}
