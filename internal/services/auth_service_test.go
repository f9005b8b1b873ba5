package services

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
	"jobportal/internal/services/dto"
	"jobportal/internal/testutil"
	"jobportal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "S3cure!pass"

func registerInput(username string, role models.Role) *dto.RegisterInput {
	return &dto.RegisterInput{
		Username:        username,
		Email:           strPtr(username + "@example.com"),
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            role,
		Experience:      intPtr(0),
		Terms:           true,
	}
}

func TestRegister_CreatesUserProfileAndSendsWelcome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, env.db, registerInput("alice", models.RoleRecruiter))
	require.NoError(t, err)
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.RoleRecruiter, user.Profile.Role)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	sent := env.emails.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sent[0].To)
	assert.Equal(t, "Welcome to Job Portal, alice 🎉", sent[0].Subject)
}

func TestRegister_WithoutEmailSendsNothing(t *testing.T) {
	env := newTestEnv(t)
	in := registerInput("quiet", models.RoleJobSeeker)
	in.Email = nil

	_, err := env.auth.Register(context.Background(), env.db, in)
	require.NoError(t, err)
	assert.Empty(t, env.emails.Sent())
}

func TestRegister_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, env.db, registerInput("root", models.RoleAdmin))
	assert.ErrorIs(t, err, apperrors.ErrAdminRegistration)

	weak := registerInput("weak", models.RoleJobSeeker)
	weak.Password = "12345678"
	_, err = env.auth.Register(ctx, env.db, weak)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)

	_, err = env.auth.Register(ctx, env.db, registerInput("alice", models.RoleJobSeeker))
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, env.db, registerInput("alice", models.RoleJobSeeker))
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

	dupEmail := registerInput("alice2", models.RoleJobSeeker)
	dupEmail.Email = strPtr("alice@example.com")
	_, err = env.auth.Register(ctx, env.db, dupEmail)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := registerInput("alice", models.RoleJobSeeker)
			in.Email = nil
			_, errs[i] = env.auth.Register(ctx, env.db, in)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_WelcomeFailureKeepsAccount(t *testing.T) {
	env := newTestEnv(t)
	env.emails.Fail(errors.New("smtp down"))

	user, err := env.auth.Register(context.Background(), env.db, registerInput("alice", models.RoleJobSeeker))
	assert.ErrorIs(t, err, apperrors.ErrWelcomeEmailFailed)
	require.NotNil(t, user)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "alice", testPassword, models.RoleRecruiter)

	_, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "nobody", Password: testPassword})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	session, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, session.Role)

	principal, err := env.auth.Authenticate(ctx, env.db, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)

	// роль читается из профиля при каждом запросе
	require.NoError(t, env.db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Update("role", models.RoleAdmin).Error)
	principal, err = env.auth.Authenticate(ctx, env.db, session.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)

	require.NoError(t, env.auth.Logout(ctx, env.db, principal.SessionID))
	require.NoError(t, env.auth.Logout(ctx, env.db, principal.SessionID))

	_, err = env.auth.Authenticate(ctx, env.db, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = env.auth.Authenticate(ctx, env.db, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogin_RememberMeExtendsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "alice", testPassword, models.RoleJobSeeker)

	short, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	long, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)

	assert.True(t, long.Remember)
	assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), long.ExpiresAt, time.Minute)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), short.ExpiresAt, time.Minute)
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "alice", testPassword, models.RoleJobSeeker)

	session, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	// серверная сессия истекла раньше токена
	require.NoError(t, env.db.Model(&models.Session{}).Where("1 = 1").Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = env.auth.Authenticate(ctx, env.db, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	var n int64
	require.NoError(t, env.db.Model(&models.Session{}).Count(&n).Error)
	assert.Zero(t, n)
}

type failingSessionDelete struct {
	repositories.SessionRepository
}

func (failingSessionDelete) DeleteByID(*gorm.DB, string) error {
	return errors.New("connection reset")
}

func TestAuthenticate_ExpiredSessionDeleteFailureIsLogged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "alice", testPassword, models.RoleJobSeeker)

	session, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Session{}).Where("1 = 1").Update("expires_at", time.Now().Add(-time.Minute)).Error)

	var buf bytes.Buffer
	logger.InitWithWriter("production", &buf)
	t.Cleanup(func() { logger.Init("test") })

	env.auth.sessionRepo = failingSessionDelete{env.auth.sessionRepo}

	_, err = env.auth.Authenticate(ctx, env.db, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	assert.Contains(t, buf.String(), "failed to delete expired session")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestPasswordReset_Flow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.db, "alice", testPassword, models.RoleJobSeeker)

	// неизвестный email не раскрывается
	require.NoError(t, env.auth.RequestPasswordReset(ctx, env.db, "ghost@example.com"))
	assert.Empty(t, env.emails.Sent())

	login, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, env.auth.RequestPasswordReset(ctx, env.db, " Alice@Example.com "))
	sent := env.emails.Sent()
	require.Len(t, sent, 1)

	token := extractToken(t, sent[0].Body)

	err = env.auth.ConfirmPasswordReset(ctx, env.db, &dto.PasswordResetConfirm{Token: "wrong", NewPassword: "N3w!secret", ConfirmPassword: "N3w!secret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, env.auth.ConfirmPasswordReset(ctx, env.db, &dto.PasswordResetConfirm{Token: token, NewPassword: "N3w!secret", ConfirmPassword: "N3w!secret"}))

	// токен одноразовый, старые сессии завершены
	err = env.auth.ConfirmPasswordReset(ctx, env.db, &dto.PasswordResetConfirm{Token: token, NewPassword: "An0ther!pw", ConfirmPassword: "An0ther!pw"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = env.auth.Authenticate(ctx, env.db, login.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = env.auth.Login(ctx, env.db, &dto.LoginRequest{Username: "alice", Password: "N3w!secret"})
	assert.NoError(t, err)
}

func extractToken(t *testing.T, body string) string {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, "token=") {
			u, err := url.Parse(strings.TrimSpace(line))
			require.NoError(t, err)
			return u.Query().Get("token")
		}
	}
	t.Fatal("reset link not found in email body")
	return ""
}
