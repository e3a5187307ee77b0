package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/auth/provider"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/session"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

// Handler owns the OAuth login flow: redirect to Discord, handle the
// callback, establish the session, and tear it down again on logout.
type Handler struct {
	provider      provider.OAuthProvider
	sessionStore  session.Store
	users         store.Store
	sessionSecret string
	cookieOpts    session.CookieOptions
}

func NewHandler(
	p provider.OAuthProvider,
	sessionStore session.Store,
	users store.Store,
	sessionSecret string,
	cookieOpts session.CookieOptions,
) *Handler {
	return &Handler{
		provider:      p,
		sessionStore:  sessionStore,
		users:         users,
		sessionSecret: sessionSecret,
		cookieOpts:    cookieOpts,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/discord", h.login)
	r.GET("/auth/discord/callback", h.callback)
	r.GET("/logout", h.Logout)
}

func (h *Handler) login(c *gin.Context) {
	if h.provider == nil {
		loginError(c, "invalid_client",
			"Discord OAuth is not configured. Please contact the administrator.")
		return
	}

	state := generateState(c, h.cookieOpts.Secure)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// loginError redirects back to the login page with a machine-readable
// error code. invalid_client is kept distinct so a misconfigured Discord
// application is diagnosable from the browser.
func loginError(c *gin.Context, code, message string) {
	c.Redirect(http.StatusFound,
		"/login?error="+code+"&message="+url.QueryEscape(message))
}

func (h *Handler) callback(c *gin.Context) {
	ctx := c.Request.Context()

	if h.provider == nil {
		loginError(c, "invalid_client",
			"Discord OAuth is not configured. Please contact the administrator.")
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("discord callback returned error",
			zap.String("error", errParam),
			zap.String("desc", c.Query("error_description")),
		)
		loginError(c, "failed", "Failed to authenticate with Discord")
		return
	}

	if !validateState(c) {
		loginError(c, "failed", "Invalid OAuth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("discord callback missing code and error")
		loginError(c, "failed", "Failed to authenticate with Discord")
		return
	}

	identity, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("discord authentication error", zap.Error(err))
		if strings.Contains(err.Error(), "invalid_client") {
			loginError(c, "invalid_client",
				"Discord application credentials are invalid. Please contact the administrator.")
			return
		}
		loginError(c, "failed", "Authentication error: "+err.Error())
		return
	}

	// Persist the profile with tokens. A storage outage must not block the
	// login itself.
	rec := store.UserRecord{
		ID:            identity.ID,
		Username:      identity.Username,
		Email:         identity.Email,
		Avatar:        identity.Avatar,
		Discriminator: identity.Discriminator,
		AccessToken:   identity.AccessToken,
		RefreshToken:  identity.RefreshToken,
		LastLogin:     time.Now(),
	}
	if err := h.users.UpsertUser(ctx, rec); err != nil {
		logger.Warn("user save failed, continuing with in-process login",
			zap.String("user_id", identity.ID), zap.Error(err))
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		loginError(c, "failed", "Login error: failed to create session")
		return
	}

	expiresAt := time.Now().Add(session.TTL)
	sess := session.Session{
		SessionID: sessionID,
		UserID:    identity.ID,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(ctx, sess); err != nil {
		logger.Error("failed to persist session", zap.Error(err))
		loginError(c, "failed", "Login error: failed to persist session")
		return
	}

	session.SetCookie(c.Writer,
		session.Sign(sessionID, h.sessionSecret),
		expiresAt,
		h.cookieOpts,
	)

	h.users.AppendActivity(ctx, "User "+rec.DisplayName()+" logged in")

	logger.Info("login successful",
		zap.String("user_id", identity.ID),
		zap.String("username", identity.Username),
		zap.String("ip", c.ClientIP()),
	)

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout destroys the session and sends the user back to the public root.
// It succeeds even when no session existed.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if id, ok := session.Verify(cookie.Value, h.sessionSecret); ok {
			_ = h.sessionStore.Delete(c.Request.Context(), id)
			logger.Info("logout", zap.String("session_id", id), zap.String("ip", c.ClientIP()))
		}
	}

	session.ClearCookie(c.Writer, h.cookieOpts)

	c.Redirect(http.StatusFound, "/")
}
