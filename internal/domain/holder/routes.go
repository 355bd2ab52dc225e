package holder

import "github.com/gin-gonic/gin"

// RegisterStaffRoutes wires customer/dependent management for the front
// desk.
func RegisterStaffRoutes(r *gin.RouterGroup, h *Handler) {
	g := r.Group("/customers")
	{
		g.POST("", h.CreateCustomer)
		g.GET("/search", h.SearchCustomers)
		g.GET("/:id", h.GetCustomer)
	}
	r.POST("/dependents", h.CreateDependent)
}
