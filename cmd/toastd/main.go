// Package main is the entry point for the toastd notification daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jmylchreest/toastd/internal/adapter/input"
	"github.com/jmylchreest/toastd/internal/audio"
	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/dbus"
	"github.com/jmylchreest/toastd/internal/host"
	"github.com/jmylchreest/toastd/internal/httpapi"
	"github.com/jmylchreest/toastd/internal/metrics"
)

// shutdownGrace bounds how long in-flight host callbacks may run on exit.
const shutdownGrace = 3 * time.Second

var (
	// Build-time variables
	version = "dev"
)

type options struct {
	configPath string
	envFile    string
	stdin      bool
	verbose    bool
	noWatch    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config file (default: ~/.config/toastd/toastd.toml)")
	flag.StringVar(&opts.envFile, "env-file", ".env", "Env file with TOASTD_* overrides")
	flag.BoolVar(&opts.stdin, "stdin", false, "Read newline-delimited host messages from stdin")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&opts.noWatch, "no-watch", false, "Disable config hot reload")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("toastd version", version)
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		slog.Error("toastd failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(opts.envFile); err != nil {
		return fmt.Errorf("failed to apply environment: %w", err)
	}

	logger := setupLogger(cfg.Log.Level, opts.verbose)
	logger.Info("starting toastd", "version", version, "callback_base", cfg.CallbackBase())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	hostClient := host.NewClient(cfg.CallbackBase(), cfg.Host.Timeout.Duration(), logger.With("component", "host"))
	hostClient.SetResultCallback(m.RecordCallback)

	dopts := daemon.Options{
		Config:   cfg,
		Notifier: hostClient,
		Metrics:  m,
		Logger:   logger,
	}
	if cfg.Host.DebugLog {
		dopts.Observer = host.NewDebugLogObserver(hostClient, logger.With("component", "host"), nil)
	}

	// Built even when disabled so that enabling audio in a reload takes effect.
	audioManager := audio.NewManager(cfg.Audio, logger.With("component", "audio"))
	if err := audioManager.Start(ctx); err != nil {
		logger.Warn("audio sound watcher unavailable", "error", err)
	}
	dopts.Cue = audioManager

	d := daemon.New(dopts)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	var dbusServer *dbus.Server
	if cfg.Transport.DBus {
		dbusServer = dbus.NewServer(d, logger.With("component", "dbus"))
		if err := dbusServer.Start(); err != nil {
			if cfg.Transport.HTTPAddr == "" && !opts.stdin {
				return fmt.Errorf("no transport available: %w", err)
			}
			logger.Warn("D-Bus transport unavailable", "error", err)
			dbusServer = nil
		} else {
			dbusServer.Attach(d)
		}
	}

	if cfg.Transport.HTTPAddr != "" {
		router := httpapi.NewRouter(d, m, logger.With("component", "http"))
		srv := httpapi.NewServer(cfg.Transport.HTTPAddr, router, logger.With("component", "http"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Serve(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	if opts.stdin {
		reader := input.NewStdinAdapter(
			input.WithLogger(logger.With("component", "stdin")),
			input.WithMetrics(m),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reader.Run(ctx, d); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}

	var watcher *daemon.ConfigWatcher
	if !opts.noWatch {
		path := opts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		watcher = daemon.NewConfigWatcher(path, logger.With("component", "config"))
		watcher.SetReloadCallback(func(next *config.Config) {
			if err := next.ApplyEnv(""); err != nil {
				d.ReloadFailed(err)
				return
			}
			d.Reload(next)
		})
		watcher.SetErrorCallback(d.ReloadFailed)
		if err := watcher.Start(ctx, cfg); err != nil {
			logger.Warn("config hot reload disabled", "error", err)
			watcher = nil
		}
	}

	logger.Info("toastd ready",
		"dbus", dbusServer != nil,
		"http", cfg.Transport.HTTPAddr,
		"stdin", opts.stdin,
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received signal, shutting down")
	case runErr = <-errCh:
		logger.Error("transport failed, shutting down", "error", runErr)
		cancel()
	}

	if watcher != nil {
		watcher.Stop()
	}
	if dbusServer != nil {
		_ = dbusServer.Stop()
	}
	wg.Wait()

	d.Close()
	if !d.Wait(shutdownGrace) {
		logger.Warn("host callbacks still in flight at exit")
	}
	audioManager.Stop()

	logger.Info("toastd stopped")
	return runErr
}

// setupLogger configures the global slog logger from the configured level.
func setupLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}
