package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "fitstudio/internal/pkg/jwt"
	"fitstudio/internal/pkg/response"
)

// Auth validates the Bearer token and stores the staff identity on the
// context for handlers (check-ins record performed_by from it).
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// StaffID extracts the authenticated staff id set by Auth. Returns 0 and
// writes 401 when it is missing.
func StaffID(c *gin.Context) int64 {
	v, exists := c.Get("staff_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return 0
	}
	switch id := v.(type) {
	case int64:
		return id
	case float64:
		return int64(id)
	}
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid staff id")
	return 0
}
