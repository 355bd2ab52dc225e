package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/pkg/response"
)

type Handler struct {
	cards *card.Service
}

func NewHandler(cards *card.Service) *Handler {
	return &Handler{cards: cards}
}

// Confirm turns a completed-payment event into a card.
func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	ref, err := req.Ref()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	method := card.PaymentOnline
	if req.PaymentMethod != "" {
		method = card.PaymentMethod(req.PaymentMethod)
	}

	created, err := h.cards.CreateCard(c.Request.Context(), card.CreateCardParams{
		Holder:        ref,
		CardTypeID:    req.CardTypeID,
		PaymentMethod: method,
		AmountPaid:    req.AmountPaid,
		ExternalRef:   req.ExternalRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, holder.ErrNotFound), errors.Is(err, catalog.ErrTypeNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, card.ErrDuplicateActiveCard):
			response.Error(c, http.StatusConflict, "DUPLICATE_ACTIVE_CARD", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		}
		return
	}
	response.Success(c, http.StatusCreated, created)
}
