package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"timecapsule/internal/platform/config"
)

func mockOpener(t *testing.T) (Opener, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	return func(string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	}, mock
}

func TestConnectWithPingsAndAppliesPool(t *testing.T) {
	open, mock := mockOpener(t)
	mock.ExpectPing()
	mock.ExpectClose()

	pg, err := ConnectWith(context.Background(), open,
		config.DatabaseConfig{URL: "postgres://test", MaxOpenConns: 3},
		config.BootConfig{ConnectAttempts: 1},
		nil,
	)
	require.NoError(t, err)

	sqlDB, err := pg.DB.DB()
	require.NoError(t, err)
	require.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, pg.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectWithRetriesThenFails(t *testing.T) {
	calls := 0
	refused := errors.New("connection refused")
	open := func(string) (*gorm.DB, error) {
		calls++
		return nil, refused
	}

	_, err := ConnectWith(context.Background(), open,
		config.DatabaseConfig{URL: "postgres://test"},
		config.BootConfig{ConnectAttempts: 3},
		nil,
	)
	require.ErrorIs(t, err, refused)
	require.Equal(t, 3, calls)
}

func TestConnectWithRecoversAfterFailedPing(t *testing.T) {
	first, firstMock := mockOpener(t)
	firstMock.ExpectPing().WillReturnError(errors.New("the database system is starting up"))
	second, secondMock := mockOpener(t)
	secondMock.ExpectPing()

	attempt := 0
	open := func(dsn string) (*gorm.DB, error) {
		attempt++
		if attempt == 1 {
			return first(dsn)
		}
		return second(dsn)
	}

	pg, err := ConnectWith(context.Background(), open,
		config.DatabaseConfig{URL: "postgres://test"},
		config.BootConfig{ConnectAttempts: 2},
		nil,
	)
	require.NoError(t, err)
	require.NotNil(t, pg)
	require.Equal(t, 2, attempt)
	require.NoError(t, secondMock.ExpectationsWereMet())
}

func TestConnectRequiresDSN(t *testing.T) {
	_, err := Connect(context.Background(), config.DatabaseConfig{}, config.BootConfig{ConnectAttempts: 1}, nil)
	require.ErrorIs(t, err, ErrDSNRequired)
}
