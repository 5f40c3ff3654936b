package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/workforce-api/internal/api"
	"github.com/phrazzld/workforce-api/internal/cache"
	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/notify"
	"github.com/phrazzld/workforce-api/internal/platform/postgres"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/phrazzld/workforce-api/internal/service/auth"
	"gorm.io/gorm"
)

// cacheSweepInterval is how often expired entries are purged from the
// in-process cache backend.
const cacheSweepInterval = 10 * time.Minute

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	sqlDB  *sql.DB
	gormDB *gorm.DB

	memoryCache *cache.MemoryBackend
	redisCache  *cache.RedisBackend
	closers     []func() error

	jwtService      auth.JWTService
	employeeService service.EmployeeService
	taskService     service.TaskService
	healthChecks    map[string]api.HealthCheck
}

// newApplication wires stores, caches, the notifier and services, then
// makes sure the bootstrap admin exists.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	sqlDB *sql.DB,
	gormDB *gorm.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		sqlDB:  sqlDB,
		gormDB: gormDB,
		healthChecks: map[string]api.HealthCheck{
			"database": api.Required(sqlDB.PingContext),
		},
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("Session service initialized", "session_lifetime", cfg.Auth.SessionLifetime)

	backend, err := app.setupCache(ctx)
	if err != nil {
		app.releaseResources()
		return nil, err
	}

	notifier, err := app.setupNotifier()
	if err != nil {
		app.releaseResources()
		return nil, err
	}

	employeeStore := postgres.NewEmployeeStore(gormDB, logger)
	taskStore := postgres.NewTaskStore(gormDB, logger)
	employeeCache := cache.NewEmployeeCache(backend, cfg.Cache.TTL, logger)
	taskCache := cache.NewTaskCache(backend, cfg.Cache.TTL, logger)

	people := service.NewEmployeeService(
		gormDB,
		employeeStore,
		taskStore,
		employeeCache,
		taskCache,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		logger,
	)
	app.employeeService = people
	app.taskService = service.NewTaskService(
		gormDB,
		taskStore,
		employeeStore,
		people,
		taskCache,
		notifier,
		logger,
	)

	if err := people.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		app.releaseResources()
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupCache selects the cache backend. A Redis server that does not answer
// at startup is logged but not fatal; the circuit breaker keeps requests on
// the database until it recovers.
func (app *application) setupCache(ctx context.Context) (cache.Backend, error) {
	cfg := app.config.Cache
	switch cfg.Backend {
	case "redis":
		app.redisCache = cache.NewRedisBackend(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, app.logger)
		app.closers = append(app.closers, app.redisCache.Close)
		app.healthChecks["cache"] = api.Optional(app.redisCache.Ping)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := app.redisCache.Ping(pingCtx); err != nil {
			app.logger.Warn("Redis cache unavailable at startup", "error", err)
		}
		app.logger.Info("Cache initialized", "backend", "redis", "ttl", cfg.TTL)
		return app.redisCache, nil
	case "memory", "":
		app.memoryCache = cache.NewMemoryBackend()
		app.logger.Info("Cache initialized", "backend", "memory", "ttl", cfg.TTL)
		return app.memoryCache, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// setupNotifier selects the reminder transport and instruments it.
func (app *application) setupNotifier() (notify.Notifier, error) {
	cfg := app.config.Notify
	var n notify.Notifier
	switch cfg.Transport {
	case "smtp":
		smtp, err := notify.NewSMTPNotifier(cfg, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SMTP notifier: %w", err)
		}
		n = smtp
	case "amqp":
		publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AMQP publisher: %w", err)
		}
		app.closers = append(app.closers, publisher.Close)
		n = publisher
	case "log", "":
		n = notify.NewLogNotifier(app.logger)
	default:
		return nil, fmt.Errorf("unknown notify transport %q", cfg.Transport)
	}
	app.logger.Info("Reminder transport initialized", "transport", cfg.Transport)
	return notify.Instrument(n, cfg.Transport), nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if app.memoryCache != nil {
		go app.sweepCache(ctx)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) sweepCache(ctx context.Context) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.memoryCache.Sweep(); n > 0 {
				app.logger.Debug("expired cache entries removed", "count", n)
			}
		}
	}
}

// releaseResources closes cache and broker connections in reverse order of
// acquisition. The database is left to the caller.
func (app *application) releaseResources() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error("Error releasing resource", "error", err)
		}
	}
	app.closers = nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.releaseResources()

	if app.sqlDB != nil {
		if err := app.sqlDB.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
