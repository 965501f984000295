package postgresadapter

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"timecapsule/contexts/activity/activity-log/domain/entities"
	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/activity/activity-log/ports"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewRepository(db, nil), mock
}

func sampleActivity() entities.Activity {
	return entities.Activity{
		ActivityID: "3f1c3a52-52f4-4b7f-9d55-000000000001",
		RequestID:  "req-1",
		Method:     "GET",
		Path:       "/public-capsules",
		Route:      "/public-capsules/",
		Status:     200,
		IPAddress:  "10.0.0.1",
		DurationMs: 4,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendActivityInsertsRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "activity_logs"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AppendActivity(context.Background(), sampleActivity()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendActivityMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "activity_logs"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.AppendActivity(context.Background(), sampleActivity())
	require.ErrorIs(t, err, domainerrors.ErrDuplicateActivity)
}

func TestListActivitiesFiltersAndOrders(t *testing.T) {
	repo, mock := newMockRepository(t)
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"activity_id", "method", "path", "status", "user_id", "occurred_at"}).
		AddRow("a-2", "GET", "/capsules", 501, "user-1", occurred).
		AddRow("a-1", "GET", "/", 200, "user-1", occurred.Add(-time.Minute))
	mock.ExpectQuery(`SELECT \* FROM "activity_logs" WHERE user_id = \$1 AND method = \$2 ORDER BY occurred_at DESC,activity_id DESC`).
		WillReturnRows(rows)

	items, err := repo.ListActivities(context.Background(), ports.ActivityFilter{
		UserID: "user-1",
		Method: "GET",
		Limit:  21,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a-2", items[0].ActivityID)
	require.Equal(t, 501, items[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteActivitiesBeforeReturnsRowCount(t *testing.T) {
	repo, mock := newMockRepository(t)
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "activity_logs" WHERE occurred_at < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteActivitiesBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModelsExposeActivityTable(t *testing.T) {
	models := Models()
	require.Len(t, models, 1)
	tabler, ok := models[0].(interface{ TableName() string })
	require.True(t, ok)
	require.Equal(t, "activity_logs", tabler.TableName())
}
