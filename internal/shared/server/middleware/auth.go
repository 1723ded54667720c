package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/shared/server/respond"
)

const principalKey = "principal"

// Auth requires "Authorization: Bearer <token>" when token is non-empty.
// With an empty token every request passes as the anonymous principal.
func Auth(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		if token == "" {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		presented := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(principalKey, "token")
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, or "" for anonymous access.
func PrincipalFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(principalKey)
}
