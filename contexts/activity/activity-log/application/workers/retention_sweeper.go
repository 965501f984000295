package workers

import (
	"context"
	"log/slog"
	"time"

	application "timecapsule/contexts/activity/activity-log/application"
	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/activity/activity-log/ports"
)

// RetentionSweeper deletes activity rows older than Retention.
type RetentionSweeper struct {
	Repository ports.Repository
	Clock      ports.Clock
	Retention  time.Duration
	Logger     *slog.Logger
}

func (s RetentionSweeper) RunOnce(ctx context.Context) (int, error) {
	if s.Retention <= 0 {
		return 0, domainerrors.ErrInvalidRetention
	}
	logger := application.ResolveLogger(s.Logger)

	cutoff := s.now().Add(-s.Retention)
	deleted, err := s.Repository.DeleteActivitiesBefore(ctx, cutoff)
	if err != nil {
		logger.Error("activity retention sweep failed",
			"event", "activity_retention_sweep_failed",
			"module", "activity/activity-log",
			"layer", "worker",
			"cutoff", cutoff,
			"error", err.Error(),
		)
		return 0, err
	}
	logger.Info("activity retention sweep completed",
		"event", "activity_retention_sweep_completed",
		"module", "activity/activity-log",
		"layer", "worker",
		"cutoff", cutoff,
		"deleted", deleted,
	)
	return deleted, nil
}

// Run sweeps every interval until ctx is cancelled. Individual sweep failures
// are logged by RunOnce and do not stop the loop.
func (s RetentionSweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_, _ = s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

func (s RetentionSweeper) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
