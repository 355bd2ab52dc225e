package catalog

import (
	"errors"
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

// ListTypes returns purchasable card types, cheapest pass first.
func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.service.ListActiveTypes(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load card types")
		return
	}
	response.Success(c, http.StatusOK, types)
}

func (h *Handler) GetType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid card type id")
		return
	}
	t, err := h.service.GetType(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) CreateType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	t, err := h.service.CreateType(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidCount):
			response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		}
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) UpdateType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid card type id")
		return
	}
	var req UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	t, err := h.service.UpdateType(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) DeactivateType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid card type id")
		return
	}
	if err := h.service.DeactivateType(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTypeNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
