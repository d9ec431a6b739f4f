// Package middleware provides gin middleware for the HTTP API.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snotevid/video-notes-go/internal/models"
	"github.com/snotevid/video-notes-go/pkg/logger"
)

const (
	headerAPIKey = "X-API-Key"
	headerAuth   = "Authorization"
	headerUserID = "X-User-ID"
	bearerPrefix = "Bearer "

	// ContextUserID is the gin context key holding the authenticated user ID.
	ContextUserID = "userID"
)

// Auth validates service API keys and extracts the caller's user identity.
// User authentication itself happens upstream; this service trusts the
// X-User-ID header set by the gateway.
type Auth struct {
	apiKeys []string
}

// NewAuth creates the auth middleware. With no configured API keys the key
// check is disabled and only user identity is enforced.
func NewAuth(apiKeys []string) *Auth {
	keys := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return &Auth{apiKeys: keys}
}

// Middleware returns a gin handler enforcing the API key (when configured)
// and the presence of a user identity header.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(a.apiKeys) > 0 && !a.isValidAPIKey(extractAPIKey(c)) {
			logger.Log.Warn("Rejected request with invalid API key",
				zap.String("path", c.Request.URL.Path),
				zap.String("clientIp", c.ClientIP()),
			)
			abortWithError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API key")
			return
		}

		userID := strings.TrimSpace(c.GetHeader(headerUserID))
		if userID == "" {
			abortWithError(c, http.StatusUnauthorized, "Unauthorized", "Missing "+headerUserID+" header")
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader(headerAPIKey); key != "" {
		return key
	}

	auth := c.GetHeader(headerAuth)
	if strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimPrefix(auth, bearerPrefix)
	}

	return ""
}

func (a *Auth) isValidAPIKey(candidate string) bool {
	if candidate == "" {
		return false
	}

	// Constant-time comparison against every configured key
	valid := false
	for _, key := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1 {
			valid = true
		}
	}
	return valid
}

func abortWithError(c *gin.Context, status int, errText, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Status:    status,
		Error:     errText,
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
