// Package testserver поднимает полный роутер приложения для HTTP-тестов.
// Отдельный пакет: testutil не должен зависеть от app.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobportal/internal/app"
	"jobportal/internal/config"
	"jobportal/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer - полный роутер приложения поверх SQLite и почты в памяти
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Deps   *app.Dependencies
	Emails *testutil.CapturingProvider
	Config *config.Config
}

// New собирает приложение как app.Run, но без сети и внешних сервисов.
// configure может поправить конфиг до сборки зависимостей.
func New(t *testing.T, configure ...func(*config.Config)) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.TestConfig(t)
	for _, fn := range configure {
		fn(cfg)
	}

	db := testutil.OpenDB(t, cfg)
	emails := testutil.NewCapturingProvider()

	deps, err := app.BuildDependencies(context.Background(), cfg, db, app.WithEmailProvider(emails))
	require.NoError(t, err)

	server := httptest.NewServer(app.SetupRouter(deps))
	t.Cleanup(func() {
		server.Close()
		_ = deps.Close()
	})

	return &TestServer{
		Server: server,
		DB:     db,
		Deps:   deps,
		Emails: emails,
		Config: cfg,
	}
}

// SendRequest отправляет JSON-запрос; token - Bearer-токен (может быть пустым)
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.Do(t, req)
}

// Do выполняет произвольный запрос и читает тело
func (ts *TestServer) Do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(b)
}

// Login входит через API и возвращает токен сессии
func (ts *TestServer) Login(t *testing.T, username, password string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}
