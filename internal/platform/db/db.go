package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"timecapsule/internal/platform/config"
	"timecapsule/internal/platform/retry"
)

var ErrDSNRequired = errors.New("postgres dsn is required")

// Postgres wraps the shared connection pool.
// It is opened once at boot and closed at shutdown; feature modules receive DB.
type Postgres struct {
	DB *gorm.DB
}

// Opener is replaceable in tests; production uses the gorm postgres dialector.
type Opener func(dsn string) (*gorm.DB, error)

func openGorm(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Connect(ctx context.Context, cfg config.DatabaseConfig, boot config.BootConfig, logger *slog.Logger) (*Postgres, error) {
	return ConnectWith(ctx, openGorm, cfg, boot, logger)
}

func ConnectWith(
	ctx context.Context,
	open Opener,
	cfg config.DatabaseConfig,
	boot config.BootConfig,
	logger *slog.Logger,
) (*Postgres, error) {
	if cfg.URL == "" {
		return nil, ErrDSNRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	var pg *Postgres
	err := retry.Do(ctx, retry.Policy{Attempts: boot.ConnectAttempts, Backoff: boot.ConnectBackoff},
		func(ctx context.Context) error {
			conn, err := connectOnce(ctx, open, cfg)
			if err != nil {
				return err
			}
			pg = conn
			return nil
		},
		func(attempt int, err error, wait time.Duration) {
			logger.Warn("postgres connect attempt failed",
				"event", "postgres_connect_retry",
				"module", "internal/platform/db",
				"layer", "platform",
				"attempt", attempt,
				"retry_in", wait.String(),
				"error", err.Error(),
			)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("postgres connected",
		"event", "postgres_connected",
		"module", "internal/platform/db",
		"layer", "platform",
		"max_open_conns", cfg.MaxOpenConns,
	)
	return pg, nil
}

func connectOnce(ctx context.Context, open Opener, cfg config.DatabaseConfig) (*Postgres, error) {
	db, err := open(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// AutoMigrate derives schema from the given entity models.
// Callers gate it on config; it must never run in production-equivalent profiles.
func (p *Postgres) AutoMigrate(ctx context.Context, models ...any) error {
	if len(models) == 0 {
		return nil
	}
	if err := p.DB.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
