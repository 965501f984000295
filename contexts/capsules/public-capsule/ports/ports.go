package ports

import (
	"context"
	"time"

	"timecapsule/contexts/capsules/public-capsule/domain/entities"
)

type Clock interface {
	Now() time.Time
}

// OpenedFilter selects capsules whose opening time is at or before OpenedBy.
type OpenedFilter struct {
	OpenedBy time.Time
	Limit    int
	Offset   int
}

// Repository lists newest opening first.
type Repository interface {
	ListOpened(ctx context.Context, filter OpenedFilter) ([]entities.PublicCapsule, error)
	GetPublicCapsule(ctx context.Context, capsuleID string) (entities.PublicCapsule, error)
}

// Cache is the slice of the shared cache store this module reads through.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type CacheObserver interface {
	RecordCacheLookup(module string, hit bool)
}
