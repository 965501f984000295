package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"timecapsule/internal/platform/config"
	"timecapsule/internal/platform/retry"
)

// Redis implements Store on a go-redis client shared for the process lifetime.
type Redis struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *slog.Logger
}

// NewRedis dials the configured endpoint and pings it with bounded retry.
// A cache that cannot be reached at boot is a fatal error for the caller.
func NewRedis(ctx context.Context, cfg config.CacheConfig, boot config.BootConfig, logger *slog.Logger) (*Redis, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	store := NewRedisFromClient(client, cfg.DefaultTTL, logger)

	err := retry.Do(ctx, retry.Policy{Attempts: boot.ConnectAttempts, Backoff: boot.ConnectBackoff},
		func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		},
		func(attempt int, err error, wait time.Duration) {
			logger.Warn("cache connect attempt failed",
				"event", "cache_connect_retry",
				"module", "internal/platform/cache",
				"layer", "platform",
				"addr", cfg.Addr,
				"attempt", attempt,
				"retry_in", wait.String(),
				"error", err.Error(),
			)
		},
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect cache %s: %w", cfg.Addr, err)
	}

	logger.Info("cache connected",
		"event", "cache_connected",
		"module", "internal/platform/cache",
		"layer", "platform",
		"addr", cfg.Addr,
		"default_ttl", store.defaultTTL.String(),
	)
	return store, nil
}

func NewRedisFromClient(client *redis.Client, defaultTTL time.Duration, logger *slog.Logger) *Redis {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, defaultTTL: defaultTTL, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Client exposes the underlying handle for modules that need raw commands.
func (r *Redis) Client() *redis.Client {
	return r.client
}
