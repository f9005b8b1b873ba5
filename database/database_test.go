package database

import (
	"context"
	"testing"

	"jobportal/internal/config"
	"jobportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
)

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor("mysql", "user:pass@tcp(localhost:3306)/jobs?charset=utf8mb4")
	require.NoError(t, err)
	my, ok := d.(*mysql.Dialector)
	require.True(t, ok)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/jobs?charset=utf8mb4&parseTime=true&clientFoundRows=true", my.Config.DSN)

	d, err = dialectorFor("mysql", "user:pass@tcp(localhost:3306)/jobs?parseTime=true")
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/jobs?parseTime=true&clientFoundRows=true", d.(*mysql.Dialector).Config.DSN)

	// явно заданный параметр не переопределяется
	d, err = dialectorFor("mysql", "user:pass@tcp(localhost:3306)/jobs?clientFoundRows=false")
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/jobs?clientFoundRows=false&parseTime=true", d.(*mysql.Dialector).Config.DSN)

	_, err = dialectorFor("oracle", "")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:database_pkg_test?mode=memory&cache=shared"

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, Migrate(context.Background(), db, "sqlite"))

	for _, model := range []any{&models.User{}, &models.Profile{}, &models.JobListing{}, &models.Session{}} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
