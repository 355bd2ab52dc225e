package feed

import (
	"github.com/gin-gonic/gin"

	"fitstudio/internal/middleware"
)

// RegisterStaffRoutes exposes the live check-in websocket. The wrapping
// group must carry the auth middleware.
func RegisterStaffRoutes(r *gin.RouterGroup, hub *Hub) {
	r.GET("/feed", func(c *gin.Context) {
		staffID := middleware.StaffID(c)
		if staffID == 0 {
			return
		}
		hub.Serve(c.Writer, c.Request, staffID)
	})
}
