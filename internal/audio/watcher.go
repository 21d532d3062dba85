package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates cached sounds when their files change on disk.
// It watches parent directories so that editors replacing files atomically
// are picked up.
type Watcher struct {
	logger *slog.Logger
	sink   Sink

	mu      sync.Mutex
	paths   map[string]bool
	dirs    map[string]bool
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher that invalidates entries of sink.
func NewWatcher(sink Sink, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		sink:   sink,
		paths:  make(map[string]bool),
		dirs:   make(map[string]bool),
	}
}

// Start begins watching. Paths added before Start are watched immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create sound watcher: %w", err)
	}
	w.watcher = fw
	w.done = make(chan struct{})

	for dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}

	go w.loop(ctx, fw, w.done)
	return nil
}

// Watch adds a sound file.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.paths[path] = true
	if w.dirs[dir] {
		return
	}
	w.dirs[dir] = true
	if w.watcher != nil {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}
}

// Reset forgets every watched path.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		for dir := range w.dirs {
			_ = w.watcher.Remove(dir)
		}
	}
	w.paths = make(map[string]bool)
	w.dirs = make(map[string]bool)
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fw, done := w.watcher, w.done
	w.watcher = nil
	w.mu.Unlock()

	if fw == nil {
		return
	}
	_ = fw.Close()
	<-done
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)

			w.mu.Lock()
			watched := w.paths[path]
			w.mu.Unlock()

			if watched {
				w.logger.Debug("sound file changed, invalidating cache", "path", path)
				w.sink.Invalidate(path)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("sound watcher error", "error", err)
		}
	}
}
