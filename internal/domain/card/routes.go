package card

import "github.com/gin-gonic/gin"

// RegisterStaffRoutes lets the front desk inspect a holder's cards.
func RegisterStaffRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/cards", h.ListByHolder)
}

// RegisterAdminRoutes exposes card issue and reporting. Requires role='admin'.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	g := r.Group("/cards")
	{
		g.POST("", h.CreateCard)
		g.POST("/admin-pass", h.CreateAdminPass)
		g.GET("/expiring", h.Expiring)
		g.GET("/low-balance", h.LowBalance)
	}
	r.GET("/reports/revenue", h.Revenue)
}
