package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/pkg/response"
)

// RequireRole gates a route group to one of the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		r, ok := role.(string)
		if !ok || !allowed[r] {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}
