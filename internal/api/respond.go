package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
)

// Every API response uses the same envelope: {"success": bool} plus
// "data" on the happy path or "error" otherwise.

func respondOK(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondUnavailable is the uniform storage-outage answer. Handlers emit
// it before attempting any operation against a disconnected store.
func respondUnavailable(c *gin.Context) {
	respondError(c, http.StatusServiceUnavailable, "Database not available")
}

// internalError hides failure detail outside development mode.
func (h *Handler) internalError(c *gin.Context, message string, err error) {
	logger.Error(message, zap.Error(err), zap.String("path", c.Request.URL.Path))
	if h.Development && err != nil {
		message = message + ": " + err.Error()
	}
	respondError(c, http.StatusInternalServerError, message)
}
