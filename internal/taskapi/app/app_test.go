package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
)

func TestNew_WiresApplication(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("TASKAPI_DATABASE_FILE", filepath.Join(dir, "tasks.db"))
	t.Setenv("AUTH_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("AUTH_PASSWORD_HASHER", string(cryptox.Bcrypt))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.FileExists(t, filepath.Join(dir, "pepper"))

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := `{"name":"Wired User","email":"wired@example.com","password":"wired-pass-1"}`
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	app.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_RejectsShortSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKAPI_DATABASE_FILE", ":memory:")
	t.Setenv("AUTH_JWT_SECRET", "short")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	_, err = New(cfg)
	require.Error(t, err)
}
