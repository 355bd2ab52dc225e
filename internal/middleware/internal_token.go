package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/pkg/response"
)

// InternalToken protects server-to-server routes (payment confirmations,
// the notification consumer) with a shared secret header.
func InternalToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Internal-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal token")
			c.Abort()
			return
		}
		c.Next()
	}
}
