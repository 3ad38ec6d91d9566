package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/hello/internal/adapters/http/api"
	app "github.com/okian/hello/internal/app"
	"github.com/okian/hello/internal/config"
	"github.com/okian/hello/internal/domain/arith"
	"github.com/okian/hello/pkg/logger"
	"github.com/okian/hello/pkg/metrics"
)

const (
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging with defaults; the configured format is applied below.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "service exited with error", logger.Error(err))
		os.Exit(1)
	}
}

// run serves cfg until ctx is cancelled or the server fails, then shuts
// down within cfg.ShutdownTimeout.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	policy, err := arith.ParsePolicy(cfg.OverflowPolicy)
	if err != nil {
		return fmt.Errorf("overflow policy: %w", err)
	}

	handler := api.NewServer(
		api.WithLogger(logger.Named("http")),
		api.WithOverflowPolicy(policy),
		api.WithCORSOrigins(cfg.CORSAllowedOrigins),
		api.WithMetricsEndpoint(cfg.MetricsEnabled),
		api.WithDocs(cfg.DocsEnabled),
	).Handler(ctx)

	srv := app.New(
		app.WithAddr(cfg.Addr),
		app.WithHandler(handler),
		app.WithTimeouts(cfg.ReadTimeout, cfg.ReadHeaderTimeout, cfg.WriteTimeout, cfg.IdleTimeout),
		app.WithLogger(logger.Named("server")),
	)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	go startSystemMetricsUpdater(ctx)

	if path := os.Getenv(config.EnvConfigPath); path != "" {
		go watchConfig(ctx, path)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down server...")
	case serveErr = <-srv.Done():
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}

	log.Info(shutdownCtx, "server stopped")
	return serveErr
}

// watchConfig follows the config file and applies log_level changes live.
// Other keys need a restart.
func watchConfig(ctx context.Context, path string) {
	err := config.Watch(ctx, path, func(cfg *config.Config) {
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			logger.Get().Warn(ctx, "ignoring invalid log_level from reload", logger.String("log_level", cfg.LogLevel))
			return
		}
		logger.Get().Info(ctx, "log level reloaded", logger.String("log_level", cfg.LogLevel))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Get().Warn(ctx, "config watch stopped", logger.String("path", path), logger.Error(err))
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average pause over the process lifetime.
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
