package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/session"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

const testSecret = "test-secret"

func setupAuth(t *testing.T) (*AuthMiddleware, *session.MemoryStore, *store.Memory) {
	t.Helper()
	sessions := session.NewMemoryStore()
	users := store.NewMemory()
	auth := NewAuthMiddleware(sessions, users, testSecret, session.OptionsForEnv(false))
	return auth, sessions, users
}

func protectedProbe(auth *AuthMiddleware) (http.Handler, *store.UserRecord) {
	var seen store.UserRecord
	h := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			seen = *p
		}
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	auth, _, _ := setupAuth(t)
	h, _ := protectedProbe(auth)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthRejectsForgedCookie(t *testing.T) {
	auth, _, _ := setupAuth(t)
	h, _ := protectedProbe(auth)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged.signature"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthResolvesPrincipal(t *testing.T) {
	auth, sessions, users := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, users.UpsertUser(ctx, store.UserRecord{ID: "42", Username: "admin"}))
	require.NoError(t, sessions.Create(ctx, session.Session{
		SessionID: "sid",
		UserID:    "42",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	h, seen := protectedProbe(auth)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.Sign("sid", testSecret)})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", seen.ID)
	assert.Equal(t, "admin", seen.Username)
}

func TestRequireAuthRollsExpiry(t *testing.T) {
	auth, sessions, users := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, users.UpsertUser(ctx, store.UserRecord{ID: "42", Username: "admin"}))
	initialExpiry := time.Now().Add(time.Minute)
	require.NoError(t, sessions.Create(ctx, session.Session{
		SessionID: "sid",
		UserID:    "42",
		ExpiresAt: initialExpiry,
	}))

	h, _ := protectedProbe(auth)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.Sign("sid", testSecret)})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	sess, err := sessions.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.True(t, sess.ExpiresAt.After(initialExpiry), "authenticated request must extend the session")

	// the refreshed cookie is re-issued alongside
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
}

func TestRequireAuthMinimalPrincipalWhenStoreDown(t *testing.T) {
	auth, sessions, users := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, sessions.Create(ctx, session.Session{
		SessionID: "sid",
		UserID:    "42",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	users.SetAvailable(false)

	h, seen := protectedProbe(auth)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.Sign("sid", testSecret)})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "a storage outage must not log users out")
	assert.Equal(t, "42", seen.ID)
	assert.Empty(t, seen.Username)
}
