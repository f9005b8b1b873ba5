package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopiesMatchPredefined(t *testing.T) {
	cause := errors.New("unique violation")
	err := ErrUsernameTaken.WithError(cause)

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, ErrUsernameTaken.Err, "исходная переменная не мутирует")

	withDetails := ErrNotLoggedIn.WithDetails(map[string]string{"redirect": "/auth/login"})
	assert.ErrorIs(t, withDetails, ErrNotLoggedIn)
	assert.Nil(t, ErrNotLoggedIn.Details)
}

func TestHandleError_JSONShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, ErrRateLimited("login"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":{"code":"RATE_LIMITED","domain":"throttle","message":"Request was throttled","details":{"scope":"login"}}}`, w.Body.String())
}

func TestHandleError_UnknownBecomesInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Cleanup(func() { SetDebug(false) })

	for _, debug := range []bool{false, true} {
		SetDebug(debug)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleError(c, errors.New("boom"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		if debug {
			assert.Contains(t, w.Body.String(), "boom")
		} else {
			assert.NotContains(t, w.Body.String(), "boom")
		}
	}
}
