package payment

import "github.com/gin-gonic/gin"

// RegisterInternalRoutes wires the gateway confirmation endpoint. Callers
// must wrap the group with the internal-token middleware.
func RegisterInternalRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/payments/confirm", h.Confirm)
}
