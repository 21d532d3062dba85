package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 260, cfg.Stack.Gap)
	assert.Equal(t, 0.8, cfg.Stack.SecondaryScale)
	assert.Equal(t, 0.6, cfg.Stack.SecondaryOpacity)
	assert.Equal(t, 50, cfg.Stack.BaseZIndex)
	assert.Zero(t, cfg.Stack.MaxActive, "unbounded by default")
	assert.Equal(t, 5*time.Second, cfg.Stack.DefaultExpiry.Duration())
	assert.Equal(t, "toastd", cfg.Host.Resource)
	assert.True(t, cfg.Host.DebugLog)
	assert.True(t, cfg.Transport.DBus)
	assert.Empty(t, cfg.Transport.HTTPAddr)
	assert.False(t, cfg.Audio.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/toastd.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Stack, cfg.Stack)
}

func TestLoad_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastd.toml")

	content := `
[stack]
gap = 200
max_active = 3
default_expiry = "2s"

[host]
resource = "hud"
debug_log = false
timeout = "500"

[transport]
dbus = false
http_addr = "127.0.0.1:8089"

[theme.colors]
error = "#ff0000"

[audio]
enabled = true
volume = 40

[audio.sounds]
error = "~/sounds/error.wav"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Stack.Gap)
	assert.Equal(t, 3, cfg.Stack.MaxActive)
	assert.Equal(t, 2*time.Second, cfg.Stack.DefaultExpiry.Duration())
	assert.Equal(t, 0.8, cfg.Stack.SecondaryScale, "unset fields keep defaults")
	assert.Equal(t, "hud", cfg.Host.Resource)
	assert.False(t, cfg.Host.DebugLog)
	assert.Equal(t, 500*time.Millisecond, cfg.Host.Timeout.Duration())
	assert.False(t, cfg.Transport.DBus)
	assert.Equal(t, "127.0.0.1:8089", cfg.Transport.HTTPAddr)
	assert.Equal(t, "#ff0000", cfg.Theme.Colors["error"])
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, "~/sounds/error.wav", cfg.Audio.Sounds["error"])
	assert.Equal(t, "https://hud", cfg.CallbackBase())
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stack]\nsecondary_scale = 2.0\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "secondary_scale")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"negative gap", func(c *Config) { c.Stack.Gap = -1 }, "gap"},
		{"zero scale", func(c *Config) { c.Stack.SecondaryScale = 0 }, "secondary_scale"},
		{"opacity above one", func(c *Config) { c.Stack.SecondaryOpacity = 1.5 }, "secondary_opacity"},
		{"max active too high", func(c *Config) { c.Stack.MaxActive = 101 }, "max_active"},
		{"unbounded", func(c *Config) { c.Stack.MaxActive = 0 }, ""},
		{"zero expiry", func(c *Config) { c.Stack.DefaultExpiry = 0 }, "default_expiry"},
		{"no host", func(c *Config) { c.Host.Resource = "" }, "host.resource"},
		{"callback only", func(c *Config) { c.Host.Resource = ""; c.Host.CallbackBase = "http://x" }, ""},
		{"unknown color type", func(c *Config) { c.Theme.Colors["fatal"] = "#fff" }, "fatal"},
		{"bad color", func(c *Config) { c.Theme.Colors["info"] = "blue" }, "invalid color"},
		{"short color", func(c *Config) { c.Theme.Colors["info"] = "#abc" }, ""},
		{"volume", func(c *Config) { c.Audio.Volume = 101 }, "volume"},
		{"unknown sound type", func(c *Config) { c.Audio.Sounds["fatal"] = "x.wav" }, "audio.sounds"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "toastd.toml")

	cfg := DefaultConfig()
	cfg.Stack.Gap = 120
	cfg.Theme.Colors["success"] = "#00ff00"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, loaded.Stack.Gap)
	assert.Equal(t, cfg.Stack.DefaultExpiry, loaded.Stack.DefaultExpiry)
	assert.Equal(t, "#00ff00", loaded.Theme.Colors["success"])
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1500")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/toastd/toastd.toml", ConfigPath())
}

func TestCallbackBase(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://toastd", cfg.CallbackBase())

	cfg.Host.CallbackBase = "http://127.0.0.1:3000/"
	assert.Equal(t, "http://127.0.0.1:3000", cfg.CallbackBase())
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TOASTD_RESOURCE=from-file\nTOASTD_DEBUG_LOG=false\n"), 0644))

	t.Setenv(EnvHTTPAddr, ":9000")
	t.Setenv(EnvResource, "from-env")

	t.Cleanup(func() { os.Unsetenv(EnvDebugLog) })

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envFile))

	assert.Equal(t, "from-env", cfg.Host.Resource, "process env wins over .env")
	assert.Equal(t, ":9000", cfg.Transport.HTTPAddr)
	assert.False(t, cfg.Host.DebugLog)
}

func TestApplyEnv_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestApplyEnv_InvalidBool(t *testing.T) {
	t.Setenv(EnvDebugLog, "maybe")
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.ApplyEnv(""), EnvDebugLog)
}
