package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/session"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated principal from context.
func PrincipalFromContext(ctx context.Context) (*store.UserRecord, bool) {
	p, ok := ctx.Value(principalKey).(*store.UserRecord)
	return p, ok
}

// AuthMiddleware is the single authentication gate: a request either
// resolves to a principal through its session cookie or it does not.
// There is no second notion of "is authenticated" anywhere else.
type AuthMiddleware struct {
	Sessions session.Store
	Users    store.Store
	Secret   string
	Cookie   session.CookieOptions
}

func NewAuthMiddleware(sessions session.Store, users store.Store, secret string, cookie session.CookieOptions) *AuthMiddleware {
	return &AuthMiddleware{
		Sessions: sessions,
		Users:    users,
		Secret:   secret,
		Cookie:   cookie,
	}
}

// Resolve returns the principal for the request, or nil when the request
// carries no valid session. On success the session is renewed (rolling
// expiry) and the refreshed cookie is re-issued when w is non-nil.
func (a *AuthMiddleware) Resolve(w http.ResponseWriter, r *http.Request) *store.UserRecord {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sessionID, ok := session.Verify(cookie.Value, a.Secret)
	if !ok {
		return nil
	}

	sess, err := a.Sessions.Get(r.Context(), sessionID)
	if err != nil || sess == nil {
		return nil
	}

	if time.Now().After(sess.ExpiresAt) {
		_ = a.Sessions.Delete(r.Context(), sessionID)
		return nil
	}

	// Rolling session: each authenticated request extends the expiry.
	sess.ExpiresAt = time.Now().Add(session.TTL)
	_ = a.Sessions.Update(r.Context(), *sess)
	if w != nil {
		session.SetCookie(w, cookie.Value, sess.ExpiresAt, a.Cookie)
	}

	principal, err := a.Users.GetUser(r.Context(), sess.UserID)
	if err != nil {
		// Database down or record gone: authenticate with a minimal
		// principal rather than locking the user out.
		return &store.UserRecord{ID: sess.UserID}
	}
	return principal
}

// RequireAuth gates a handler on a resolvable principal; anonymous
// callers are redirected to the login page.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := a.Resolve(w, r)
		if principal == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
