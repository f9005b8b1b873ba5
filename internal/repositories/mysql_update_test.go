package repositories

import (
	"testing"

	"jobportal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMySQLMock - gorm поверх sqlmock с диалектом MySQL
func newMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestJobRepository_UpdateUnchangedRowOnMySQL(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `job_listings` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	job := &models.JobListing{ID: 1, Title: "Backend Engineer", Company: "Acme", Location: "Remote", Description: "Go"}
	assert.NoError(t, NewJobRepository().Update(db, job))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateUnchangedRowOnMySQL(t *testing.T) {
	db, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `profiles` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	profile := &models.Profile{UserID: 7, Role: models.RoleJobSeeker}
	profile.ID = 3
	assert.NoError(t, NewProfileRepository().Update(db, profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}
