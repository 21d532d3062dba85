package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/model"
)

// Manager maps notification types to sounds and plays them.
type Manager struct {
	logger  *slog.Logger
	sink    Sink
	watcher *Watcher

	mu      sync.RWMutex
	enabled bool
	sounds  map[model.Type]string
}

// NewManager creates a manager playing through the speaker.
func NewManager(cfg config.AudioConfig, logger *slog.Logger) *Manager {
	return NewManagerWithSink(cfg, NewPlayer(logger), logger)
}

// NewManagerWithSink creates a manager playing through sink.
func NewManagerWithSink(cfg config.AudioConfig, sink Sink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger:  logger,
		sink:    sink,
		watcher: NewWatcher(sink, logger),
		sounds:  make(map[model.Type]string),
	}
	m.apply(cfg)
	return m
}

// apply loads sound settings, skipping files that do not exist.
func (m *Manager) apply(cfg config.AudioConfig) {
	sounds := make(map[model.Type]string)
	for name, path := range cfg.Sounds {
		if path == "" {
			continue
		}
		expanded := ExpandPath(path)
		if _, err := os.Stat(expanded); err != nil {
			m.logger.Warn("sound file not found", "type", name, "path", expanded)
			continue
		}
		sounds[model.ParseType(name)] = expanded
	}

	m.sink.SetVolume(float64(cfg.Volume) / 100.0)

	m.mu.Lock()
	m.enabled = cfg.Enabled
	m.sounds = sounds
	m.mu.Unlock()

	m.watcher.Reset()
	for _, path := range sounds {
		m.watcher.Watch(path)
	}
}

// Start preloads every configured sound and starts the file watcher.
func (m *Manager) Start(ctx context.Context) error {
	m.preload()
	if err := m.watcher.Start(ctx); err != nil {
		return err
	}
	m.logger.Info("audio manager started", "sounds", len(m.Sounds()))
	return nil
}

// Stop stops the watcher and releases the sink.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.sink.Close()
	m.logger.Debug("audio manager stopped")
}

// Play plays the sound configured for typ. It is a no-op when audio is
// disabled or no sound is configured for the type.
func (m *Manager) Play(typ model.Type) error {
	m.mu.RLock()
	enabled := m.enabled
	path, ok := m.sounds[typ]
	m.mu.RUnlock()

	if !enabled || !ok {
		return nil
	}
	return m.sink.Play(path)
}

// Sounds returns a copy of the configured sounds.
func (m *Manager) Sounds() map[model.Type]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[model.Type]string, len(m.sounds))
	for k, v := range m.sounds {
		out[k] = v
	}
	return out
}

// Enabled reports whether cues are played.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// UpdateConfig applies a reloaded audio configuration.
func (m *Manager) UpdateConfig(cfg config.AudioConfig) {
	for _, path := range m.Sounds() {
		m.sink.Invalidate(path)
	}
	m.apply(cfg)
	m.preload()
	m.logger.Debug("audio config updated", "enabled", cfg.Enabled)
}

// preload decodes every configured sound. Nothing is decoded while audio
// is disabled, so a disabled manager never opens the speaker.
func (m *Manager) preload() {
	if !m.Enabled() {
		return
	}
	for typ, path := range m.Sounds() {
		if err := m.sink.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "type", typ, "path", path, "error", err)
		}
	}
}
