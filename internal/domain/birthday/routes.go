package birthday

import "github.com/gin-gonic/gin"

// RegisterStaffRoutes wires pass creation and today's birthday list.
func RegisterStaffRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/birthday-passes", h.CreatePass)
	r.GET("/birthdays/today", h.TodaysBirthdays)
}
