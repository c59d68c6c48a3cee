package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	memorycache "taskmanager/internal/adapter/cache/memory"
	rediscache "taskmanager/internal/adapter/cache/redis"
	"taskmanager/internal/adapter/database/postgres"
	pgrepo "taskmanager/internal/adapter/database/postgres/repository"
	"taskmanager/internal/adapter/database/sqlite"
	sqliterepo "taskmanager/internal/adapter/database/sqlite/repository"
	"taskmanager/internal/adapter/http/handler"
	"taskmanager/internal/adapter/http/routes"
	"taskmanager/internal/core/port"
	"taskmanager/internal/core/telemetry"
	"taskmanager/pkg/config"
)

type ServerOptions struct {
	Metrics *telemetry.AppMetrics
	Logger  *config.AppLogger
	Probe   port.Telemetry
}

// StartServer acquires the backing store, wires the container and serves
// until ctx is cancelled, then drains in-flight requests and releases the
// store. Postgres is used when DATABASE_URL is set, sqlite otherwise.
func StartServer(ctx context.Context, cfg *config.AppConfig, opts ServerOptions) error {
	var (
		repo       port.TaskRepository
		ping       func(ctx context.Context) error
		closeStore func() error
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL, cfg.MigrationsPath)

		if err != nil {
			return err
		}

		repo = pgrepo.NewTaskRepository(db, opts.Probe)
		ping = db.Ping
		closeStore = func() error {
			db.Close()
			return nil
		}
	} else {
		db, err := sqlite.NewDB(cfg.DatabasePath, cfg.MigrationsPath)

		if err != nil {
			return err
		}

		repo = sqliterepo.NewTaskRepository(db, opts.Probe)
		ping = db.PingContext
		closeStore = db.Close
	}

	defer closeStore()

	cacheRepo, err := newCacheRepository(ctx, cfg)

	if err != nil {
		return err
	}

	defer cacheRepo.Close()

	container := NewContainer(repo, opts.Probe, opts.Logger)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TaskHandler:   container.TaskHandler,
		HealthHandler: handler.NewHealthHandler(ping),
	}, opts.Metrics, opts.Logger, cfg, cacheRepo)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"cache_enabled", cfg.CacheEnabled)

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newCacheRepository(ctx context.Context, cfg *config.AppConfig) (port.CacheRepository, error) {
	if cfg.RedisURL != "" {
		return rediscache.NewCacheRepository(ctx, cfg.RedisURL)
	}

	return memorycache.NewCacheRepository(), nil
}
