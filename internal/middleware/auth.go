package middleware

import (
	"net/http"
	"strings"

	"bookit/internal/logger"
	"bookit/internal/metrics"

	"github.com/gin-gonic/gin"
)

// AccessTokenParser returns the user ID carried by a valid access token.
type AccessTokenParser interface {
	ParseAccess(token string) (string, error)
}

// JWTAuth requires an "Authorization: Bearer <access token>" header.
// Refresh tokens are rejected.
func JWTAuth(parser AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			metrics.AuthRejections.WithLabelValues("missing_token").Inc()
			c.Header("WWW-Authenticate", `Bearer realm="bookit"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		userID, err := parser.ParseAccess(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			metrics.AuthRejections.WithLabelValues("invalid_token").Inc()
			logger.WithContext(c.Request.Context()).Debug("Bearer token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Request = c.Request.WithContext(ContextWithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
