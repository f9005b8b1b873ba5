package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"jobportal/internal/config"
	"jobportal/internal/models"
	"jobportal/internal/notifications"
	"jobportal/internal/queue"
	"jobportal/internal/testutil"
	"jobportal/internal/testutil/testserver"
	"jobportal/internal/workers"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "S3cure!pass"

func registerBody(username, role string) map[string]interface{} {
	return map[string]interface{}{
		"username":         username,
		"email":            username + "@example.com",
		"password":         password,
		"confirm_password": password,
		"role":             role,
		"terms":            true,
	}
}

func decode(t *testing.T, body string, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), out), body)
}

func TestRegisterLoginLogout(t *testing.T) {
	ts := testserver.New(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/register", "", registerBody("alice", "RECRUITER"))
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var reg struct {
		Message  string `json:"message"`
		Redirect string `json:"redirect"`
	}
	decode(t, body, &reg)
	assert.Equal(t, "Registration successful! Please log in.", reg.Message)
	assert.Equal(t, "/auth/login", reg.Redirect)

	sent := ts.Emails.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notifications.WelcomeSubject("alice"), sent[0].Subject)

	res, body = ts.SendRequest(t, http.MethodPost, "/auth/register", "", registerBody("alice", "RECRUITER"))
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": password})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var login struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, body, &login)
	assert.Equal(t, "Welcome back, alice!", login.Message)
	assert.Equal(t, "RECRUITER", login.User.Role)

	var sessionCookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == ts.Config.Session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	// повторный вход уже вошедшего пользователя
	res, body = ts.SendRequest(t, http.MethodPost, "/auth/login", login.Token, map[string]string{"username": "alice", "password": password})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "You are already logged in")

	res, _ = ts.SendRequest(t, http.MethodGet, "/profile", login.Token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/profile", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	ts := testserver.New(t)

	body := registerBody("bob", "JOB_SEEKER")
	body["confirm_password"] = "different"
	body["experience"] = "three"
	body["terms"] = false
	res, out := ts.SendRequest(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, res.StatusCode, out)
	assert.Contains(t, out, "experience")

	res, _ = ts.SendRequest(t, http.MethodPost, "/auth/register", "", registerBody("root", "ADMIN"))
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Empty(t, ts.Emails.Sent())
}

func TestRegister_WelcomeFailureReports502(t *testing.T) {
	ts := testserver.New(t)
	ts.Emails.Fail(fmt.Errorf("smtp down"))

	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/register", "", registerBody("carol", "JOB_SEEKER"))
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)

	// аккаунт создан, войти можно
	ts.Emails.Fail(nil)
	ts.Login(t, "carol", password)
}

func TestJobs_CreateListEditDelete(t *testing.T) {
	ts := testserver.New(t)
	testutil.CreateUser(t, ts.DB, "rec", password, models.RoleRecruiter)
	testutil.CreateUser(t, ts.DB, "rec2", password, models.RoleRecruiter)
	testutil.CreateUser(t, ts.DB, "seeker", password, models.RoleJobSeeker)

	recToken := ts.Login(t, "rec", password)
	otherToken := ts.Login(t, "rec2", password)
	seekerToken := ts.Login(t, "seeker", password)

	job := map[string]string{"title": "Go Engineer", "company": "Acme", "location": "Berlin", "description": "Build services"}

	res, body := ts.SendRequest(t, http.MethodPost, "/create_job", seekerToken, job)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)
	assert.Zero(t, testutil.CountJobs(t, ts.DB))

	res, body = ts.SendRequest(t, http.MethodPost, "/create_job", recToken, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/create_job", recToken, job)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var created struct {
		Redirect string `json:"redirect"`
		Job      struct {
			ID uint `json:"id"`
		} `json:"job"`
	}
	decode(t, body, &created)
	assert.Equal(t, fmt.Sprintf("/jobs/%d", created.Job.ID), created.Redirect)

	res, _ = ts.SendRequest(t, http.MethodGet, "/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/jobs?q=go", seekerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Go Engineer")

	editPath := fmt.Sprintf("/jobs/%d/edit", created.Job.ID)
	edited := map[string]string{"title": "Senior Go Engineer", "company": "Acme", "location": "Berlin", "description": "Build services"}

	res, _ = ts.SendRequest(t, http.MethodPost, editPath, otherToken, edited)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, editPath, recToken, edited)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Senior Go Engineer")

	res, _ = ts.SendRequest(t, http.MethodGet, "/jobs/abc", recToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/jobs/%d/delete", created.Job.ID), recToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/jobs/%d", created.Job.ID), recToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestJobs_Pagination(t *testing.T) {
	ts := testserver.New(t)
	rec := testutil.CreateUser(t, ts.DB, "rec", password, models.RoleRecruiter)
	for i := 0; i < 15; i++ {
		testutil.CreateJob(t, ts.DB, rec.ID, fmt.Sprintf("Job %d", i))
	}
	token := ts.Login(t, "rec", password)

	var page struct {
		Jobs  []json.RawMessage `json:"jobs"`
		Total int64             `json:"total"`
		Pages int               `json:"pages"`
	}
	res, body := ts.SendRequest(t, http.MethodGet, "/jobs?page=2", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	decode(t, body, &page)
	assert.Len(t, page.Jobs, 5)
	assert.Equal(t, int64(15), page.Total)
	assert.Equal(t, 2, page.Pages)
}

func TestHome_FeaturedJobs(t *testing.T) {
	ts := testserver.New(t)
	rec := testutil.CreateUser(t, ts.DB, "rec", password, models.RoleRecruiter)
	for i := 0; i < 5; i++ {
		testutil.CreateJob(t, ts.DB, rec.ID, fmt.Sprintf("Job %d", i))
	}

	res, body := ts.SendRequest(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var home struct {
		Featured []struct {
			ID uint `json:"id"`
		} `json:"featured_jobs"`
	}
	decode(t, body, &home)
	assert.Len(t, home.Featured, 3)

	res, _ = ts.SendRequest(t, http.MethodGet, "/terms", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestProfile_EditAndAPI(t *testing.T) {
	ts := testserver.New(t)
	testutil.CreateUser(t, ts.DB, "alice", password, models.RoleJobSeeker)
	token := ts.Login(t, "alice", password)

	res, body := ts.SendRequest(t, http.MethodPost, "/profile/edit", token, map[string]interface{}{
		"email":        "alice@example.com",
		"phone_number": "+4915112345678",
		"location":     "Berlin",
		"skills":       "go, sql",
		"experience":   3,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Profile updated successfully!")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var profile struct {
		Role       string   `json:"role"`
		Experience int      `json:"experience"`
		SkillsList []string `json:"skills_list"`
	}
	decode(t, body, &profile)
	assert.Equal(t, "JOB_SEEKER", profile.Role)
	assert.Equal(t, 3, profile.Experience)
	assert.Equal(t, []string{"go", "sql"}, profile.SkillsList)

	res, _ = ts.SendRequest(t, http.MethodPost, "/profile/edit", token, map[string]interface{}{"phone_number": "123456789"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPasswordReset_EndToEnd(t *testing.T) {
	ts := testserver.New(t)
	testutil.CreateUser(t, ts.DB, "alice", password, models.RoleJobSeeker)

	const generic = "If an account with that email exists, a password reset link has been sent."

	res, body := ts.SendRequest(t, http.MethodPost, "/password-reset", "", map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, generic)
	assert.Empty(t, ts.Emails.Sent())

	res, body = ts.SendRequest(t, http.MethodPost, "/password-reset", "", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, generic)

	sent := ts.Emails.Sent()
	require.Len(t, sent, 1)
	idx := strings.Index(sent[0].Body, "token=")
	require.Positive(t, idx)
	token := strings.Fields(sent[0].Body[idx+len("token="):])[0]

	res, body = ts.SendRequest(t, http.MethodPost, "/password-reset/confirm", "", map[string]string{
		"token":            token,
		"new_password":     "N3w!secret",
		"confirm_password": "N3w!secret",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	ts.Login(t, "alice", "N3w!secret")
}

func TestHealthz(t *testing.T) {
	ts := testserver.New(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)

	res, _ = ts.SendRequest(t, http.MethodGet, "/no-such-page", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/healthz", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestLoginThrottle(t *testing.T) {
	ts := testserver.New(t, func(cfg *config.Config) {
		cfg.RateLimit.Disabled = false
		cfg.RateLimit.Login = 2
	})

	creds := map[string]string{"username": "ghost", "password": "whatever1"}
	for i := 0; i < 2; i++ {
		res, _ := ts.SendRequest(t, http.MethodPost, "/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
}

func TestQueuedNotifications_DeliveredByWorker(t *testing.T) {
	mr := miniredis.RunT(t)
	ts := testserver.New(t, func(cfg *config.Config) {
		cfg.Redis.URL = "redis://" + mr.Addr() + "/0"
		cfg.Cache.Backend = "redis"
		cfg.Notifications.Mode = "queued"
		cfg.Queue.Transport = "redis"
	})
	require.NotNil(t, ts.Deps.Queue)

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/register", "", registerBody("dave", "JOB_SEEKER"))
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Empty(t, ts.Emails.Sent(), "письмо еще в очереди")

	worker := workers.NewNotificationWorker(nil, ts.Deps.Mailer, 1, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := ts.Deps.Queue.Consume(ctx, func(ctx context.Context, task queue.Task) error {
		defer cancel()
		assert.Equal(t, notifications.TaskWelcomeEmail, task.Type)
		return worker.Handle(ctx, task)
	})
	require.NoError(t, err)

	sent := ts.Emails.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"dave@example.com"}, sent[0].To)
}
