package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/auth"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/session"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

const testSecret = "test-secret"

type fakeProvider struct {
	identity    *auth.Identity
	exchangeErr error
}

func (f *fakeProvider) Name() string { return "discord" }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://discord.test/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(_ context.Context, _ string) (*auth.Identity, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.identity, nil
}

type handlerEnv struct {
	router   *gin.Engine
	sessions *session.MemoryStore
	store    *store.Memory
}

func setupHandler(t *testing.T, p *fakeProvider) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewMemoryStore()
	mem := store.NewMemory()

	var h *Handler
	if p == nil {
		h = NewHandler(nil, sessions, mem, testSecret, session.OptionsForEnv(false))
	} else {
		h = NewHandler(p, sessions, mem, testSecret, session.OptionsForEnv(false))
	}

	r := gin.New()
	h.RegisterRoutes(r)

	return &handlerEnv{router: r, sessions: sessions, store: mem}
}

func (e *handlerEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLoginRedirectsToProvider(t *testing.T) {
	env := setupHandler(t, &fakeProvider{})

	w := env.get("/auth/discord")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://discord.test/authorize?state=")

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, stateCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestLoginWithoutProvider(t *testing.T) {
	env := setupHandler(t, nil)

	w := env.get("/auth/discord")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=invalid_client")
}

func TestCallbackProviderError(t *testing.T) {
	env := setupHandler(t, &fakeProvider{})

	w := env.get("/auth/discord/callback?error=access_denied")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=failed")
}

func TestCallbackInvalidState(t *testing.T) {
	env := setupHandler(t, &fakeProvider{})

	w := env.get("/auth/discord/callback?code=abc&state=mismatch",
		&http.Cookie{Name: stateCookieName, Value: "expected"})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=failed")
}

func TestCallbackInvalidClient(t *testing.T) {
	env := setupHandler(t, &fakeProvider{
		exchangeErr: errors.New(`oauth2: "invalid_client" bad credentials`),
	})

	w := env.get("/auth/discord/callback?code=abc&state=s",
		&http.Cookie{Name: stateCookieName, Value: "s"})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=invalid_client")
}

func TestCallbackGenericExchangeFailure(t *testing.T) {
	env := setupHandler(t, &fakeProvider{
		exchangeErr: errors.New("network unreachable"),
	})

	w := env.get("/auth/discord/callback?code=abc&state=s",
		&http.Cookie{Name: stateCookieName, Value: "s"})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=failed")
}

func TestCallbackSuccess(t *testing.T) {
	env := setupHandler(t, &fakeProvider{
		identity: &auth.Identity{
			ID:           "42",
			Username:     "admin",
			Email:        "admin@example.com",
			AccessToken:  "at",
			RefreshToken: "rt",
		},
	})

	w := env.get("/auth/discord/callback?code=abc&state=s",
		&http.Cookie{Name: stateCookieName, Value: "s"})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// session cookie issued and resolvable
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)

	sid, ok := session.Verify(sessionCookie.Value, testSecret)
	require.True(t, ok)
	sess, err := env.sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "42", sess.UserID)
	assert.WithinDuration(t, time.Now().Add(session.TTL), sess.ExpiresAt, time.Minute)

	// profile persisted with tokens
	u, err := env.store.GetUser(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "at", u.AccessToken)
	assert.Equal(t, "rt", u.RefreshToken)
	assert.False(t, u.LastLogin.IsZero())

	// login recorded in the activity feed
	records, err := env.store.RecentActivity(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "User admin logged in", records[0].Message)
}

func TestCallbackSuccessWithStorageDown(t *testing.T) {
	env := setupHandler(t, &fakeProvider{
		identity: &auth.Identity{ID: "42", Username: "admin"},
	})
	env.store.SetAvailable(false)

	w := env.get("/auth/discord/callback?code=abc&state=s",
		&http.Cookie{Name: stateCookieName, Value: "s"})

	// a storage outage must not block authentication
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	env := setupHandler(t, &fakeProvider{})

	require.NoError(t, env.sessions.Create(context.Background(), session.Session{
		SessionID: "sid",
		UserID:    "42",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	w := env.get("/logout",
		&http.Cookie{Name: session.CookieName, Value: session.Sign("sid", testSecret)})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	sess, err := env.sessions.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Nil(t, sess)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLogoutWithoutSession(t *testing.T) {
	env := setupHandler(t, &fakeProvider{})

	w := env.get("/logout")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
