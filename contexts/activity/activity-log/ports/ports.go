package ports

import (
	"context"
	"time"

	"timecapsule/contexts/activity/activity-log/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for activity rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ActivityFilter narrows listings; zero values mean "any".
type ActivityFilter struct {
	UserID string
	Method string
	Limit  int
	Offset int
}

// Repository is the write/read boundary for activity rows.
// ListActivities returns newest first.
type Repository interface {
	AppendActivity(ctx context.Context, activity entities.Activity) error
	ListActivities(ctx context.Context, filter ActivityFilter) ([]entities.Activity, error)
	DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RecordObserver is notified of every write attempt (metrics).
type RecordObserver interface {
	RecordActivity(ok bool)
}
