package services

import (
	"context"
	"errors"
	"testing"

	"jobportal/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type downStore struct{ cache.Store }

func (downStore) Ping(context.Context) error { return cache.ErrUnavailable }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestHealthCheck_OK(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing()

	status := NewHealthService(cache.NewMemoryStore()).Check(context.Background(), db)
	assert.True(t, status.Healthy())
	assert.Equal(t, "ok", status.Checks["database"])
	assert.Equal(t, "ok", status.Checks["cache"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	status := NewHealthService(nil).Check(context.Background(), db)
	assert.False(t, status.Healthy())
	assert.Equal(t, "unavailable", status.Status)
	assert.Contains(t, status.Checks["database"], "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_CacheDegradedStaysHealthy(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing()

	status := NewHealthService(downStore{}).Check(context.Background(), db)
	assert.True(t, status.Healthy())
	assert.Contains(t, status.Checks["cache"], "degraded")
}
