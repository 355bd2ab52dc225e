package checkin

import "github.com/gin-gonic/gin"

// RegisterStaffRoutes wires the check-in surface. Callers wrap the group
// with the auth middleware; performed_by comes from the token.
func RegisterStaffRoutes(r *gin.RouterGroup, h *Handler) {
	g := r.Group("/checkins")
	{
		g.POST("", h.Create)
		g.GET("/today", h.Today)
		g.GET("/history", h.History)
	}
}
