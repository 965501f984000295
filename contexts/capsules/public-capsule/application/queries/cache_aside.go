package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "timecapsule/contexts/capsules/public-capsule/application"
	"timecapsule/contexts/capsules/public-capsule/ports"
)

const cacheModule = "public-capsule"

// CacheAside reads through the shared cache. Every cache error is logged and
// treated as a miss so the repository stays the source of truth.
type CacheAside struct {
	Cache    ports.Cache
	Observer ports.CacheObserver
	TTL      time.Duration
	Logger   *slog.Logger
}

func readThrough[T any](ctx context.Context, c CacheAside, key string, load func(context.Context) (T, error)) (T, error) {
	if c.Cache == nil {
		return load(ctx)
	}
	logger := application.ResolveLogger(c.Logger)

	raw, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("public capsule cache read failed",
			"event", "public_capsule_cache_read_failed",
			"module", "capsules/public-capsule",
			"layer", "application",
			"key", key,
			"error", err.Error(),
		)
		hit = false
	}
	if hit {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.observe(true)
			return cached, nil
		}
	}
	c.observe(false)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err == nil {
		err = c.Cache.Set(ctx, key, encoded, c.TTL)
	}
	if err != nil {
		logger.Warn("public capsule cache write failed",
			"event", "public_capsule_cache_write_failed",
			"module", "capsules/public-capsule",
			"layer", "application",
			"key", key,
			"error", err.Error(),
		)
	}
	return value, nil
}

func (c CacheAside) observe(hit bool) {
	if c.Observer != nil {
		c.Observer.RecordCacheLookup(cacheModule, hit)
	}
}
