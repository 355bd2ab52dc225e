package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Pending is polled by the external delivery worker.
func (h *Handler) Pending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	triggers, err := h.service.Pending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, triggers)
}

type ackRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// Ack marks a delivered batch. Re-acking is a no-op.
func (h *Handler) Ack(c *gin.Context) {
	var req ackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	n, err := h.service.Ack(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"acked": n})
}
