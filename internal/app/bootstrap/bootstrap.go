// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	activitylog "timecapsule/contexts/activity/activity-log"
	activitypostgres "timecapsule/contexts/activity/activity-log/adapters/postgres"
	activityports "timecapsule/contexts/activity/activity-log/ports"
	publiccapsule "timecapsule/contexts/capsules/public-capsule"
	capsulepostgres "timecapsule/contexts/capsules/public-capsule/adapters/postgres"
	capsuleports "timecapsule/contexts/capsules/public-capsule/ports"
	metricsservice "timecapsule/contexts/observability/metrics-service"
	"timecapsule/contexts/shared/pagination"
	"timecapsule/internal/platform/cache"
	"timecapsule/internal/platform/config"
	"timecapsule/internal/platform/db"
	"timecapsule/internal/platform/httpserver"
	"timecapsule/internal/platform/logging"
	"timecapsule/internal/platform/metrics"
	"timecapsule/internal/platform/module"
)

var ErrDatabaseRequired = errors.New("database handle is required")

// Resources are the shared handles opened before assembly. BuildAPI fills
// them from real connections; tests pass fakes.
type Resources struct {
	DB    *gorm.DB
	Cache cache.Store
	// Migrate runs schema sync; nil uses gorm AutoMigrate over DB.
	Migrate func(ctx context.Context, models ...any) error
	Checks  []httpserver.HealthCheck
	Metrics *metrics.Metrics

	// Repository overrides; nil means the postgres adapter over DB.
	Activity activityports.Repository
	Capsules capsuleports.Repository
}

type APIApp struct {
	server          *httpserver.Server
	registry        *module.Registry
	limiter         *httpserver.RateLimiter
	postgres        *db.Postgres
	cache           cache.Store
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	sweeper  sweeper
	interval time.Duration
	logger   *slog.Logger
}

type sweeper interface {
	Run(ctx context.Context, interval time.Duration) error
}

// BuildAPI loads config, opens postgres then the cache and assembles the HTTP
// app. Any failure aborts boot; handles opened so far are closed.
func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel).With("service", cfg.ServiceName, "process", "api")
	logger.Info("configuration loaded",
		"event", "bootstrap_config_loaded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"environment", cfg.Environment,
		"auto_migrate", cfg.Database.AutoMigrate,
	)

	pg, err := db.Connect(ctx, cfg.Database, cfg.Boot, logger)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewRedis(ctx, cfg.Cache, cfg.Boot, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	app, err := Assemble(ctx, cfg, logger, Resources{
		DB:      pg.DB,
		Cache:   store,
		Migrate: pg.AutoMigrate,
		Checks: []httpserver.HealthCheck{
			{Name: "postgres", Check: pg.Ping},
			{Name: "cache", Check: store.Ping},
		},
	})
	if err != nil {
		_ = store.Close()
		_ = pg.Close()
		return nil, err
	}
	app.postgres = pg
	app.cache = store
	return app, nil
}

// Assemble registers the feature modules, optionally syncs schema and builds
// the server with its request pipeline. It never opens a socket.
func Assemble(ctx context.Context, cfg config.Config, logger *slog.Logger, res Resources) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if res.DB == nil && (res.Activity == nil || res.Capsules == nil) {
		return nil, ErrDatabaseRequired
	}
	if res.Metrics == nil {
		res.Metrics = metrics.New()
	}
	if res.Activity == nil {
		res.Activity = activitypostgres.NewRepository(res.DB, logger)
	}
	if res.Capsules == nil {
		res.Capsules = capsulepostgres.NewRepository(res.DB)
	}

	activity := activitylog.NewModule(activitylog.Dependencies{
		Repository:  res.Activity,
		Clock:       activitypostgres.SystemClock{},
		IDGenerator: activitypostgres.UUIDGenerator{},
		Observer:    res.Metrics,
		Retention:   cfg.Activity.Retention,
		Models:      activitypostgres.Models(),
		Logger:      logger,
	})
	capsules := publiccapsule.NewModule(publiccapsule.Dependencies{
		Repository:    res.Capsules,
		Clock:         capsulepostgres.SystemClock{},
		Cache:         res.Cache,
		CacheObserver: res.Metrics,
		CacheTTL:      cfg.Cache.DefaultTTL,
		Models:        capsulepostgres.Models(),
		Logger:        logger,
	})

	registry := module.NewRegistry()
	if err := registry.RegisterAll(featureModules(activity, capsules, res.Metrics)...); err != nil {
		return nil, fmt.Errorf("register feature modules: %w", err)
	}

	if err := syncSchema(ctx, cfg, logger, res, registry.Models()); err != nil {
		return nil, err
	}

	var limiter *httpserver.RateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = httpserver.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	server := httpserver.New(httpserver.Options{
		Addr:     cfg.HTTPAddr(),
		Pipeline: pipeline(cfg, activity, res.Metrics, limiter),
		Controllers: []httpserver.Route{
			{Controller: httpserver.AppController{
				ServiceName: cfg.ServiceName,
				Environment: cfg.Environment,
				APIVersion:  cfg.APIVersion,
				Checks:      res.Checks,
				Logger:      logger,
			}},
			{Prefix: publiccapsule.ControllerPrefix, Controller: capsules.Controller},
		},
		Modules: registry,
		Logger:  logger,
	})

	logger.Info("api assembled",
		"event", "bootstrap_api_assembled",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"modules", registry.Names(),
	)
	return &APIApp{
		server:          server,
		registry:        registry,
		limiter:         limiter,
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
		logger:          logger,
	}, nil
}

// featureModules is the fixed feature list; each entry is registered once, in order.
func featureModules(activity activitylog.Module, capsules publiccapsule.Module, m *metrics.Metrics) []module.Module {
	return []module.Module{
		module.NewReserved("user", "/users"),
		module.NewReserved("auth", "/auth"),
		module.NewReserved("transaction", "/transactions"),
		module.NewReserved("guest", "/guests"),
		module.NewReserved("capsule", "/capsules"),
		pagination.NewModule(),
		module.NewReserved("admin", "/admin"),
		activity,
		metricsservice.NewModule(m.Handler()),
		module.NewReserved("content", "/content"),
		module.NewReserved("recommendation", "/recommendations"),
		module.NewReserved("search", "/search"),
		module.NewReserved("capsule-history", "/capsule-history"),
		capsules,
		module.NewReserved("user-interaction", "/user-interactions"),
	}
}

// pipeline lists request steps outermost first. Activity logging wraps the
// interceptor so it observes the final status; recovery sits inside the
// interceptor so panics still leave as an error envelope.
func pipeline(
	cfg config.Config,
	activity activitylog.Module,
	m *metrics.Metrics,
	limiter *httpserver.RateLimiter,
) []httpserver.Middleware {
	steps := []httpserver.Middleware{
		middleware.RequestID,
		httpserver.EchoRequestID,
		middleware.RealIP,
		activity.Middleware.Handler,
		m.InstrumentHandler,
		httpserver.ResponseInterceptor(cfg.APIVersion),
		middleware.Recoverer,
	}
	if limiter != nil {
		steps = append(steps, limiter.Handler)
	}
	return steps
}

func syncSchema(ctx context.Context, cfg config.Config, logger *slog.Logger, res Resources, models []any) error {
	if !cfg.Database.AutoMigrate {
		logger.Info("schema sync disabled",
			"event", "bootstrap_schema_sync_skipped",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"environment", cfg.Environment,
		)
		return nil
	}
	if config.IsProductionLike(cfg.Environment) {
		return config.ErrAutoMigrateInProduction
	}

	migrate := res.Migrate
	if migrate == nil {
		if res.DB == nil {
			return ErrDatabaseRequired
		}
		migrate = (&db.Postgres{DB: res.DB}).AutoMigrate
	}
	if err := migrate(ctx, models...); err != nil {
		return fmt.Errorf("schema sync: %w", err)
	}
	logger.Info("schema synced",
		"event", "bootstrap_schema_synced",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"models", len(models),
	)
	return nil
}

// Handler exposes the assembled router, pipeline included.
func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

// Modules returns registered feature module names in registration order.
func (a *APIApp) Modules() []string {
	return a.registry.Names()
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (a *APIApp) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	if a.limiter != nil {
		a.limiter.StartSweeper(done, time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"addr", a.server.Addr(),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

// Close releases the cache then the database pool.
func (a *APIApp) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

// BuildWorker loads config and opens postgres for the retention sweeper.
func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel).With("service", cfg.ServiceName, "process", "worker")

	pg, err := db.Connect(ctx, cfg.Database, cfg.Boot, logger)
	if err != nil {
		return nil, err
	}
	return assembleWorker(cfg, logger, pg, activitypostgres.NewRepository(pg.DB, logger)), nil
}

func assembleWorker(cfg config.Config, logger *slog.Logger, pg *db.Postgres, repo activityports.Repository) *WorkerApp {
	activity := activitylog.NewModule(activitylog.Dependencies{
		Repository: repo,
		Clock:      activitypostgres.SystemClock{},
		Retention:  cfg.Activity.Retention,
		Logger:     logger,
	})
	return &WorkerApp{
		postgres: pg,
		sweeper:  activity.Sweeper,
		interval: cfg.Activity.SweepInterval,
		logger:   logger,
	}
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"sweep_interval", w.interval.String(),
	)
	return w.sweeper.Run(ctx, w.interval)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}
