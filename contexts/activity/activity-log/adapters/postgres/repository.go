package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"timecapsule/contexts/activity/activity-log/domain/entities"
	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/activity/activity-log/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables owned by this module for schema sync.
func Models() []any {
	return []any{&activityModel{}}
}

func (r *Repository) AppendActivity(ctx context.Context, activity entities.Activity) error {
	row := activityModelFromEntity(activity)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateActivity
		}
		return err
	}
	return nil
}

func (r *Repository) ListActivities(ctx context.Context, filter ports.ActivityFilter) ([]entities.Activity, error) {
	tx := r.db.WithContext(ctx).Model(&activityModel{})
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if method := strings.TrimSpace(filter.Method); method != "" {
		tx = tx.Where("method = ?", method)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}

	var rows []activityModel
	if err := tx.Order("occurred_at DESC").Order("activity_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Activity, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("occurred_at < ?", cutoff.UTC()).
		Delete(&activityModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		r.logger.Debug("activity rows deleted",
			"event", "activity_rows_deleted",
			"module", "activity/activity-log",
			"layer", "adapter",
			"rows", result.RowsAffected,
		)
	}
	return int(result.RowsAffected), nil
}

type activityModel struct {
	ActivityID string    `gorm:"column:activity_id;primaryKey;type:uuid"`
	RequestID  string    `gorm:"column:request_id"`
	Method     string    `gorm:"column:method;size:16;index"`
	Path       string    `gorm:"column:path"`
	Route      string    `gorm:"column:route"`
	Status     int       `gorm:"column:status"`
	UserID     string    `gorm:"column:user_id;index"`
	IPAddress  string    `gorm:"column:ip_address"`
	UserAgent  string    `gorm:"column:user_agent;size:512"`
	DurationMs int64     `gorm:"column:duration_ms"`
	OccurredAt time.Time `gorm:"column:occurred_at;index"`
}

func (activityModel) TableName() string {
	return "activity_logs"
}

func activityModelFromEntity(item entities.Activity) activityModel {
	occurredAt := item.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return activityModel{
		ActivityID: strings.TrimSpace(item.ActivityID),
		RequestID:  item.RequestID,
		Method:     item.Method,
		Path:       item.Path,
		Route:      item.Route,
		Status:     item.Status,
		UserID:     item.UserID,
		IPAddress:  item.IPAddress,
		UserAgent:  item.UserAgent,
		DurationMs: item.DurationMs,
		OccurredAt: occurredAt,
	}
}

func (m activityModel) toEntity() entities.Activity {
	return entities.Activity{
		ActivityID: m.ActivityID,
		RequestID:  m.RequestID,
		Method:     m.Method,
		Path:       m.Path,
		Route:      m.Route,
		Status:     m.Status,
		UserID:     m.UserID,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		DurationMs: m.DurationMs,
		OccurredAt: m.OccurredAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
