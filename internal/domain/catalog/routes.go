package catalog

import "github.com/gin-gonic/gin"

// RegisterStaffRoutes exposes read access for the front desk.
func RegisterStaffRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/card-types", h.ListTypes)
	r.GET("/card-types/:id", h.GetType)
}

// RegisterAdminRoutes exposes catalog management. Requires role='admin'.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	g := r.Group("/card-types")
	{
		g.POST("", h.CreateType)
		g.PATCH("/:id", h.UpdateType)
		g.DELETE("/:id", h.DeactivateType)
	}
}
