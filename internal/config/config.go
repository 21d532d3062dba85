// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultGap              = 260
	DefaultSecondaryScale   = 0.8
	DefaultSecondaryOpacity = 0.6
	DefaultBaseZIndex       = 50
	DefaultMaxActive        = 0 // unbounded
	DefaultExpiry           = 5 * time.Second
	DefaultResource         = "toastd"
	DefaultHostTimeout      = 2 * time.Second
	DefaultVolume           = 80
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the configuration for toastd and toastctl.
// Loaded from ~/.config/toastd/toastd.toml
type Config struct {
	Stack     StackConfig     `toml:"stack"`
	Host      HostConfig      `toml:"host"`
	Transport TransportConfig `toml:"transport"`
	Theme     ThemeConfig     `toml:"theme"`
	Audio     AudioConfig     `toml:"audio"`
	Log       LogConfig       `toml:"log"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// StackConfig controls placement and lifetime of stacked toasts.
type StackConfig struct {
	Gap              int      `toml:"gap"`               // Horizontal spread step in pixels
	SecondaryScale   float64  `toml:"secondary_scale"`   // Scale of non-front items
	SecondaryOpacity float64  `toml:"secondary_opacity"` // Opacity of non-front items
	BaseZIndex       int      `toml:"base_z_index"`      // Stacking order of the front item
	MaxActive        int      `toml:"max_active"`        // 0 = unbounded
	DefaultExpiry    Duration `toml:"default_expiry"`    // Used when a payload has none
}

// HostConfig describes the outbound callback channel to the host engine.
type HostConfig struct {
	Resource     string   `toml:"resource"`      // Resource name, used to build the callback base
	CallbackBase string   `toml:"callback_base"` // Overrides https://<resource>
	DebugLog     bool     `toml:"debug_log"`     // Forward SHOW_NOTIFICATION to debugLog
	Timeout      Duration `toml:"timeout"`
}

// TransportConfig selects the inbound transports.
type TransportConfig struct {
	DBus     bool   `toml:"dbus"`
	HTTPAddr string `toml:"http_addr"` // Empty disables the HTTP bridge
}

// ThemeConfig overrides the per-type color presets.
type ThemeConfig struct {
	Colors map[string]string `toml:"colors"` // type -> #rrggbb
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool              `toml:"enabled"`
	Volume  int               `toml:"volume"` // 0-100
	Sounds  map[string]string `toml:"sounds"` // type -> sound file
}

// ClipboardConfig configures clipboard integration for the preview.
type ClipboardConfig struct {
	Command string `toml:"command"` // Empty = auto-detect wl-copy, xclip, xsel
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Stack: StackConfig{
			Gap:              DefaultGap,
			SecondaryScale:   DefaultSecondaryScale,
			SecondaryOpacity: DefaultSecondaryOpacity,
			BaseZIndex:       DefaultBaseZIndex,
			MaxActive:        DefaultMaxActive,
			DefaultExpiry:    Duration(DefaultExpiry),
		},
		Host: HostConfig{
			Resource: DefaultResource,
			DebugLog: true,
			Timeout:  Duration(DefaultHostTimeout),
		},
		Transport: TransportConfig{
			DBus: true,
		},
		Theme: ThemeConfig{
			Colors: make(map[string]string),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
			Sounds:  make(map[string]string),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastd", "toastd.toml")
}

// Load loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and writes atomically via a temp file.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var knownTypes = map[string]bool{
	"success": true,
	"warning": true,
	"error":   true,
	"info":    true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Stack.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %d", c.Stack.Gap)
	}
	if c.Stack.SecondaryScale <= 0 || c.Stack.SecondaryScale > 1 {
		return fmt.Errorf("secondary_scale must be in (0, 1], got %v", c.Stack.SecondaryScale)
	}
	if c.Stack.SecondaryOpacity < 0 || c.Stack.SecondaryOpacity > 1 {
		return fmt.Errorf("secondary_opacity must be in [0, 1], got %v", c.Stack.SecondaryOpacity)
	}
	if c.Stack.MaxActive < 0 || c.Stack.MaxActive > 100 {
		return fmt.Errorf("max_active must be between 0 and 100, got %d", c.Stack.MaxActive)
	}
	if c.Stack.DefaultExpiry.Duration() <= 0 {
		return fmt.Errorf("default_expiry must be positive, got %s", c.Stack.DefaultExpiry.Duration())
	}

	if c.Host.Resource == "" && c.Host.CallbackBase == "" {
		return errors.New("host.resource or host.callback_base must be set")
	}

	for typ, color := range c.Theme.Colors {
		if !knownTypes[typ] {
			return fmt.Errorf("unknown notification type %q in theme.colors", typ)
		}
		if !hexColorRegex.MatchString(color) {
			return fmt.Errorf("invalid color %q for type %q, must be #rgb or #rrggbb", color, typ)
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	for typ := range c.Audio.Sounds {
		if !knownTypes[typ] {
			return fmt.Errorf("unknown notification type %q in audio.sounds", typ)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// CallbackBase returns the base URL for host callbacks.
func (c *Config) CallbackBase() string {
	if c.Host.CallbackBase != "" {
		return strings.TrimRight(c.Host.CallbackBase, "/")
	}
	return "https://" + c.Host.Resource
}
