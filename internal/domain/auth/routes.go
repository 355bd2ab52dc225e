package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes wires the login endpoint.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/auth/login", h.Login)
}
