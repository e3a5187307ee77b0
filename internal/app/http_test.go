package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/config"
)

// setupHTTP with no database and no OAuth credentials must still yield a
// fully routed, degraded-but-serving application.
func setupDegradedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	staticDir := t.TempDir()
	for _, name := range []string{"index.html", "login.html", "dashboard.html"} {
		require.NoError(t, os.WriteFile(
			filepath.Join(staticDir, name), []byte("<html>"+name+"</html>"), 0o644))
	}

	cfg := config.Config{
		AppPort:       "0",
		AppEnv:        "test",
		MongoDBName:   "primebot",
		SessionSecret: "test-secret",
		StaticDir:     staticDir,
	}

	router, cleanup, err := setupHTTP(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	return router
}

func TestDegradedStartupServesPublicPages(t *testing.T) {
	router := setupDegradedRouter(t)

	for _, path := range []string{"/", "/login"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestDegradedStartupGuardsDashboard(t *testing.T) {
	router := setupDegradedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestDegradedStartupReportsUnavailable(t *testing.T) {
	router := setupDegradedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/blacklist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Database not available")
}

func TestDegradedLoginRedirectsWithErrorCode(t *testing.T) {
	router := setupDegradedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/discord", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=invalid_client")
}

func TestHealthAlwaysAnswers(t *testing.T) {
	router := setupDegradedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disconnected"`)
}
