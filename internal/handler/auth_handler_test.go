package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kampusconnect.id/forum/internal/repository/localrepo"
	"kampusconnect.id/forum/internal/service"
)

func newRegisterRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := localrepo.Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	authSvc := service.NewAuthService(backend.Users(), backend.Sessions(), "test-secret", time.Hour)
	profileSvc := service.NewProfileService(backend.Users(), backend.Posts(), nil)
	h := NewAuthHandler(authSvc, profileSvc)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterPasswordConfirmationMismatch(t *testing.T) {
	r := newRegisterRouter(t)

	w := postJSON(r, "/api/auth/register", `{
		"email": "alice@kampus.id",
		"password": "hunter22",
		"confirmPassword": "something-else",
		"username": "alice"
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password confirmation does not match")

	// The rejected registration must not have persisted anything.
	w = postJSON(r, "/api/auth/register", `{
		"email": "alice@kampus.id",
		"password": "hunter22",
		"confirmPassword": "hunter22",
		"username": "alice"
	}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterPasswordConfirmationRequired(t *testing.T) {
	r := newRegisterRouter(t)

	w := postJSON(r, "/api/auth/register", `{
		"email": "bob@kampus.id",
		"password": "hunter22",
		"username": "bob"
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password confirmation is required")
}

func TestRegisterMatchingConfirmation(t *testing.T) {
	r := newRegisterRouter(t)

	w := postJSON(r, "/api/auth/register", `{
		"email": "carol@kampus.id",
		"password": "correcthorse",
		"confirmPassword": "correcthorse",
		"username": "carol",
		"major": "Informatika"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"accessToken"`)
	assert.Contains(t, w.Body.String(), `"carol@kampus.id"`)
	assert.NotContains(t, w.Body.String(), "correcthorse")
}
