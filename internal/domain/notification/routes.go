package notification

import "github.com/gin-gonic/gin"

// RegisterInternalRoutes exposes the outbox drain to the delivery worker.
// Callers must wrap the group with the internal-token middleware.
func RegisterInternalRoutes(r *gin.RouterGroup, h *Handler) {
	g := r.Group("/notifications")
	{
		g.GET("/pending", h.Pending)
		g.POST("/ack", h.Ack)
	}
}
