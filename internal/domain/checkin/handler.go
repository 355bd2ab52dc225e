package checkin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/middleware"
	"fitstudio/internal/pkg/clock"
	"fitstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
	studio  *clock.Studio
}

func NewHandler(service *Service, studio *clock.Studio) *Handler {
	return &Handler{service: service, studio: studio}
}

// Create processes a check-in request from the front desk.
func (h *Handler) Create(c *gin.Context) {
	staffID := middleware.StaffID(c)
	if staffID == 0 {
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	view, err := h.service.Process(c.Request.Context(), &req, staffID)
	if err != nil {
		h.writeProcessError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

func (h *Handler) writeProcessError(c *gin.Context, err error) {
	var noCard *NoActiveCardError
	switch {
	case errors.Is(err, ErrInvalidIdentifier), errors.Is(err, ErrInvalidMode):
		response.Error(c, http.StatusBadRequest, "INVALID_IDENTIFIER", err.Error())
	case errors.Is(err, holder.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &noCard):
		response.ErrorWithDetails(c, http.StatusConflict, "NO_ACTIVE_CARD", err.Error(), gin.H{
			"reason": noCard.Reason,
		})
	case errors.Is(err, ErrNoBirthdayPass):
		response.Error(c, http.StatusConflict, "NO_BIRTHDAY_PASS", err.Error())
	case errors.Is(err, card.ErrNoClassesRemaining):
		response.Error(c, http.StatusConflict, "NO_CLASSES_REMAINING", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// Today lists check-ins since studio midnight for the front-desk board.
func (h *Handler) Today(c *gin.Context) {
	list, err := h.service.ListToday(c.Request.Context(), h.studio.Today())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, list)
}

// History lists a holder's recent check-ins.
func (h *Handler) History(c *gin.Context) {
	var p holder.Params
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid customer_id")
			return
		}
		p.CustomerID = &id
	}
	if v := c.Query("dependent_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid dependent_id")
			return
		}
		p.DependentID = &id
	}
	ref, err := p.Ref()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.service.History(c.Request.Context(), ref, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, list)
}
