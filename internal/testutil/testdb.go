package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"jobportal/database"
	"jobportal/internal/auth"
	"jobportal/internal/config"
	"jobportal/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// TestConfig - конфиг для тестов: SQLite в памяти, inline-почта, без троттлинга
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Server.PublicURL = "http://jobportal.test"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = fmt.Sprintf("file:jobportal_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	cfg.JWT.Secret = "test-secret-key-for-jobportal"
	cfg.Cache.Backend = "memory"
	cfg.Notifications.Mode = "inline"
	cfg.RateLimit.Disabled = true
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.ApplyDefaults()
	return cfg
}

// NewTestDB открывает чистую SQLite базу в памяти со всеми таблицами
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return OpenDB(t, TestConfig(t))
}

// OpenDB открывает базу из конфига и выполняет AutoMigrate
func OpenDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Open(cfg)
	require.NoError(t, err, "не удалось открыть тестовую БД")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser создает пользователя с профилем заданной роли
func CreateUser(t *testing.T, db *gorm.DB, username, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	email := username + "@example.com"
	user := &models.User{Username: username, Email: &email, PasswordHash: hash}
	require.NoError(t, db.Create(user).Error, "создание пользователя %s", username)

	profile := &models.Profile{UserID: user.ID, Role: role}
	require.NoError(t, db.Create(profile).Error, "создание профиля %s", username)

	user.Profile = profile
	return user
}

// CreateJob создает вакансию напрямую в БД
func CreateJob(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.JobListing {
	t.Helper()
	job := &models.JobListing{
		Title:       title,
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Build things",
		CreatedByID: ownerID,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// CountJobs - число строк в job_listings
func CountJobs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.JobListing{}).Count(&n).Error)
	return n
}
