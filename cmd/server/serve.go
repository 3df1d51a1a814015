package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arsw/blueprints/internal/api"
	"github.com/arsw/blueprints/internal/api/middleware"
	"github.com/arsw/blueprints/internal/blueprint"
	"github.com/arsw/blueprints/internal/config"
	"github.com/arsw/blueprints/internal/database"
	"github.com/arsw/blueprints/internal/filter"
	"github.com/arsw/blueprints/internal/metrics"
	"github.com/arsw/blueprints/internal/monitor"
	"github.com/arsw/blueprints/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	f, err := filter.New(cfg.Filter)
	if err != nil {
		return fmt.Errorf("configuring filter: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, closer, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	m := metrics.New()
	instrumented := metrics.InstrumentRepository(repo, m)
	svc := service.New(instrumented, f)

	deps := api.RouterDeps{
		Service:      svc,
		StorePinger:  instrumented,
		StoreBackend: backendLabel(cfg),
		FilterName:   f.Name(),
		Version:      cfg.Version,
		Metrics:      m,
		AccessLog:    true,
	}
	if cfg.RateLimitRPS > 0 {
		deps.RateLimit = &middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
			OnReject:          m.RateLimited.Inc,
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	if cfg.MonitorInterval > 0 {
		go monitor.New(instrumented, m, cfg.MonitorInterval, pingTimeout).Start(monitorCtx)
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting blueprints server",
			"port", cfg.Port, "version", cfg.Version, "store", deps.StoreBackend, "filter", deps.FilterName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

const pingTimeout = 5 * time.Second

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openRepository builds the configured store. The returned closer releases
// its connections.
func openRepository(ctx context.Context, cfg *config.Config) (blueprint.Repository, io.Closer, error) {
	if cfg.StoreBackend == config.BackendMemory {
		return blueprint.NewMemoryRepository(), closerFunc(func() error { return nil }), nil
	}

	switch cfg.RelationalDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := blueprint.NewSQLiteRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	default:
		pool, err := database.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := blueprint.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, closerFunc(func() error {
			pool.Close()
			return nil
		}), nil
	}
}

func backendLabel(cfg *config.Config) string {
	if cfg.StoreBackend == config.BackendMemory {
		return config.BackendMemory
	}
	return cfg.StoreBackend + "/" + cfg.RelationalDriver
}
