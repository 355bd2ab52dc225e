package scheduler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/pkg/response"
)

type Handler struct {
	scheduler *Scheduler
}

func NewHandler(s *Scheduler) *Handler {
	return &Handler{scheduler: s}
}

// Run triggers a full sweep on demand. Safe to call while the periodic runs
// are live; the same conditional updates back both paths.
func (h *Handler) Run(c *gin.Context) {
	summary := h.scheduler.RunDailySweep(c.Request.Context())
	response.Success(c, http.StatusOK, summary)
}

// RegisterAdminRoutes wires the manual trigger. Requires role='admin'.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/scheduler/run", h.Run)
}
