package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvResource     = "TOASTD_RESOURCE"
	EnvCallbackBase = "TOASTD_CALLBACK_BASE"
	EnvHTTPAddr     = "TOASTD_HTTP_ADDR"
	EnvDebugLog     = "TOASTD_DEBUG_LOG"
	EnvLogLevel     = "TOASTD_LOG_LEVEL"
)

// ApplyEnv loads envFile (if it exists) into the process environment and then
// applies TOASTD_* overrides to the configuration. Variables already present
// in the environment win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvResource); ok {
		c.Host.Resource = v
	}
	if v, ok := os.LookupEnv(EnvCallbackBase); ok {
		c.Host.CallbackBase = v
	}
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok {
		c.Transport.HTTPAddr = v
	}
	if v, ok := os.LookupEnv(EnvDebugLog); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebugLog, err)
		}
		c.Host.DebugLog = enabled
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}

	return c.Validate()
}
