package services

import (
	"testing"
	"time"

	"jobportal/internal/auth"
	"jobportal/internal/cache"
	"jobportal/internal/email"
	"jobportal/internal/notifications"
	"jobportal/internal/repositories"
	"jobportal/internal/testutil"
	"jobportal/internal/validator"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	emails   *testutil.CapturingProvider
	store    *cache.MemoryStore
	jobCache *cache.JobListCache
	auth     *AuthServiceImpl
	jobs     *JobServiceImpl
	profiles ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	users := repositories.NewUserRepository()
	profiles := repositories.NewProfileRepository()
	sessions := repositories.NewSessionRepository()
	jobs := repositories.NewJobRepository()

	emails := testutil.NewCapturingProvider()
	templates, err := email.NewDefaultTemplateManager()
	require.NoError(t, err)
	mailer := notifications.NewMailer(emails, templates, "http://jobportal.test", time.Hour)

	store := cache.NewMemoryStore()
	jobCache := cache.NewJobListCache(store, time.Hour)

	authSvc := NewAuthService(users, profiles, sessions, auth.NewTokenManager("test-secret"), notifications.NewInlineSender(mailer), AuthSettings{
		RememberTTL: 14 * 24 * time.Hour,
		DefaultTTL:  24 * time.Hour,
		ResetTTL:    time.Hour,
		PublicURL:   "http://jobportal.test",
	}).(*AuthServiceImpl)
	jobSvc := NewJobService(jobs, profiles, jobCache, validator.New()).(*JobServiceImpl)

	return &testEnv{
		db:       db,
		emails:   emails,
		store:    store,
		jobCache: jobCache,
		auth:     authSvc,
		jobs:     jobSvc,
		profiles: NewProfileService(users, profiles, nil, nil, 300),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
