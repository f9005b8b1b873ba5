package services

import (
	"context"
	"testing"
	"time"

	"jobportal/internal/cache"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
	"jobportal/internal/validator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MySQL без clientFoundRows возвращает 0 затронутых строк, если поля не изменились
func TestJobUpdate_UnchangedFieldsOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewJobService(
		repositories.NewJobRepository(),
		repositories.NewProfileRepository(),
		cache.NewJobListCache(cache.NewMemoryStore(), time.Hour),
		validator.New(),
	)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `job_listings`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title", "company", "location", "description", "created_at", "created_by_id"}).
			AddRow(1, "Backend Engineer", "Acme", "Berlin", "Write Go", created, 7),
	)
	mock.ExpectQuery("SELECT \\* FROM `profiles`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "role"}).AddRow(3, 7, string(models.RoleRecruiter)),
	)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `job_listings` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	resp, err := svc.Update(context.Background(), db, 7, 1, jobRequest("Backend Engineer"))
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", resp.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
