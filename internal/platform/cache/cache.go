// Package cache holds the shared key-value cache handle exported to feature modules.
package cache

import (
	"context"
	"time"
)

// DefaultTTL matches the expiry used when CACHE_TTL is not configured.
const DefaultTTL = 600 * time.Second

// Store is the cache boundary feature modules depend on.
// A miss is reported as (nil, false, nil), never as an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl; ttl <= 0 uses the store default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
