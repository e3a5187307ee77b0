package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/middleware"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

// Handler serves the blacklist API and its companion endpoints.
type Handler struct {
	Store       store.Store
	Auth        *middleware.AuthMiddleware
	Environment string
	Development bool
}

func NewHandler(st store.Store, auth *middleware.AuthMiddleware, environment string) *Handler {
	return &Handler{
		Store:       st,
		Auth:        auth,
		Environment: environment,
		Development: environment == "development",
	}
}

// ListBlacklist returns every entry plus the full stats breakdown. Stats
// are recomputed on each call; entries near their expiry boundary can
// move between buckets from one call to the next.
func (h *Handler) ListBlacklist(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	entries, err := h.Store.ListBlacklist(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch blacklist data", err)
		return
	}

	respondOK(c, gin.H{
		"data":  entries,
		"stats": ComputeListStats(entries, time.Now()),
	})
}

func (h *Handler) GetBlacklistEntry(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	entry, err := h.Store.GetBlacklistEntry(c.Request.Context(), c.Param("userId"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found in blacklist")
		return
	}
	if err != nil {
		h.internalError(c, "Failed to fetch user data", err)
		return
	}

	respondOK(c, gin.H{"data": entry})
}

type createBlacklistRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Reason   string `json:"reason"`
	Server   string `json:"server"`
}

// CreateBlacklistEntry upserts a ban keyed on the external user id.
// Requires an authenticated principal; addedBy is stamped from it.
func (h *Handler) CreateBlacklistEntry(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	var req createBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "User ID and username are required")
		return
	}
	if req.UserID == "" || req.Username == "" {
		respondError(c, http.StatusBadRequest, "User ID and username are required")
		return
	}

	principal, _ := middleware.PrincipalFromContext(c.Request.Context())
	if principal == nil {
		// unreachable behind RequireAuth, kept as a guard for direct wiring
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if req.Reason == "" {
		req.Reason = "Added via dashboard"
	}
	if req.Server == "" {
		req.Server = "Unknown"
	}

	entry := store.BlacklistEntry{
		ID:       req.UserID,
		Username: req.Username,
		Reason:   req.Reason,
		Server:   req.Server,
		Date:     time.Now().UTC().Format(time.RFC3339),
		AddedBy:  principal.DisplayName(),
	}

	result, err := h.Store.UpsertBlacklistEntry(c.Request.Context(), entry)
	if err != nil {
		h.internalError(c, "Failed to add user to blacklist", err)
		return
	}

	h.Store.AppendActivity(c.Request.Context(),
		"User "+req.Username+" ("+req.UserID+") added to blacklist by "+principal.DisplayName())

	logger.Info("blacklist entry upserted",
		zap.String("user_id", req.UserID),
		zap.String("added_by", principal.DisplayName()),
		zap.Bool("inserted", result.Inserted),
	)

	respondOK(c, gin.H{"data": result})
}

// Stats serves the summary formula; see stats.go for why it differs from
// the listing's stats.
func (h *Handler) Stats(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	entries, err := h.Store.ListBlacklist(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch stats", err)
		return
	}

	respondOK(c, gin.H{"data": ComputeSummaryStats(entries, time.Now())})
}

// tokenBearingProfile is the one place user tokens are copied into a
// response body. The dashboard is a trusted client; tightening this later
// means changing exactly this function.
func tokenBearingProfile(u *store.UserRecord) gin.H {
	return gin.H{
		"id":            u.ID,
		"username":      u.Username,
		"discriminator": u.Discriminator,
		"avatar":        u.Avatar,
		"access_token":  u.AccessToken,
		"refresh_token": u.RefreshToken,
	}
}

// AuthCheck reports whether the caller holds a valid session. Public: an
// anonymous caller gets {"authenticated": false}, not an error.
func (h *Handler) AuthCheck(c *gin.Context) {
	principal := h.Auth.Resolve(c.Writer, c.Request)
	if principal == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          tokenBearingProfile(principal),
	})
}

// ListUsers dumps the users collection. Unprotected in the observed
// system; preserved as-is and flagged in the route table.
func (h *Handler) ListUsers(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch users", err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// UserTokens returns the acting principal's stored tokens.
func (h *Handler) UserTokens(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	principal, _ := middleware.PrincipalFromContext(c.Request.Context())
	if principal == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := h.Store.GetUser(c.Request.Context(), principal.ID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internalError(c, "Failed to fetch user tokens", err)
		return
	}

	respondOK(c, gin.H{"data": gin.H{
		"access_token":  u.AccessToken,
		"refresh_token": u.RefreshToken,
		"lastLogin":     u.LastLogin,
	}})
}

const activityFeedLimit = 10

// Activity returns the most recent administrative actions, newest first.
func (h *Handler) Activity(c *gin.Context) {
	if !h.Store.Available() {
		respondUnavailable(c)
		return
	}

	records, err := h.Store.RecentActivity(c.Request.Context(), activityFeedLimit)
	if err != nil {
		h.internalError(c, "Failed to fetch activity data", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"activities": records,
	})
}

// Health reports process and database status.
func (h *Handler) Health(c *gin.Context) {
	database := "disconnected"
	if h.Store.Available() {
		database = "connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"database":    database,
		"environment": h.Environment,
	})
}
