package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards mutating endpoints with a shared API key.
type AdminMiddleware struct {
	apiKey string
}

// NewAdminMiddleware creates the guard. An empty key disables it.
func NewAdminMiddleware(apiKey string) *AdminMiddleware {
	return &AdminMiddleware{apiKey: strings.TrimSpace(apiKey)}
}

// Enabled reports whether a key is configured.
func (am *AdminMiddleware) Enabled() bool {
	return am.apiKey != ""
}

// RequireAdminAuth accepts the key as a Bearer token or in X-API-Key.
func (am *AdminMiddleware) RequireAdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.Enabled() {
			c.Next()
			return
		}

		if token, ok := bearerToken(c.GetHeader("Authorization")); ok && am.ValidateAdminKey(token) {
			c.Next()
			return
		}
		if am.ValidateAdminKey(c.GetHeader("X-API-Key")) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Valid admin API key required for this endpoint",
		})
	}
}

// ValidateAdminKey compares key against the configured key in constant time.
func (am *AdminMiddleware) ValidateAdminKey(key string) bool {
	if !am.Enabled() || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(am.apiKey)) == 1
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
