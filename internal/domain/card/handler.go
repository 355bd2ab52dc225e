package card

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateCard handles admin cash sales and manual issues.
func (h *Handler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	ref, err := req.Ref()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	created, err := h.service.CreateCard(c.Request.Context(), CreateCardParams{
		Holder:        ref,
		CardTypeID:    req.CardTypeID,
		PaymentMethod: PaymentMethod(req.PaymentMethod),
		AmountPaid:    req.AmountPaid,
		ExternalRef:   req.ExternalRef,
		Override:      req.Override,
	})
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.view(c, created))
}

// CreateAdminPass issues a complimentary pass via the catalog fallback chain.
func (h *Handler) CreateAdminPass(c *gin.Context) {
	var req AdminPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	ref, err := req.Ref()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	created, err := h.service.CreateAdminPass(c.Request.Context(), ref)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.view(c, created))
}

func (h *Handler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, holder.ErrNotFound), errors.Is(err, catalog.ErrTypeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrDuplicateActiveCard):
		response.Error(c, http.StatusConflict, "DUPLICATE_ACTIVE_CARD", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// ListByHolder shows a holder's full card history, newest first.
func (h *Handler) ListByHolder(c *gin.Context) {
	ref, ok := refFromQuery(c)
	if !ok {
		return
	}
	cards, err := h.service.ListByHolder(c.Request.Context(), ref)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	out := make([]View, 0, len(cards))
	for i := range cards {
		out = append(out, h.view(c, &cards[i]))
	}
	response.Success(c, http.StatusOK, out)
}

// Expiring lists active cards expiring within ?days (default 7).
func (h *Handler) Expiring(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 0 {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid days")
		return
	}
	var out []View
	seen := map[int64]bool{}
	for d := 0; d <= days; d++ {
		cards, err := h.service.ExpiringInDays(c.Request.Context(), d)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
			return
		}
		for i := range cards {
			if !seen[cards[i].ID] {
				seen[cards[i].ID] = true
				out = append(out, h.view(c, &cards[i]))
			}
		}
	}
	response.Success(c, http.StatusOK, out)
}

// LowBalance lists active punch cards with 1 or 2 classes left.
func (h *Handler) LowBalance(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "2"))
	if err != nil || threshold < 1 {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid threshold")
		return
	}
	cards, err := h.service.LowBalance(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	out := make([]View, 0, len(cards))
	for i := range cards {
		out = append(out, h.view(c, &cards[i]))
	}
	response.Success(c, http.StatusOK, out)
}

// Revenue aggregates sales by card type over ?from/?to (YYYY-MM-DD).
func (h *Handler) Revenue(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid from date")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid to date")
		return
	}
	rows, err := h.service.RevenueByType(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) view(c *gin.Context, cd *Card) View {
	return View{Card: *cd, CardTypeName: h.service.TypeName(c.Request.Context(), cd)}
}

func refFromQuery(c *gin.Context) (holder.Ref, bool) {
	var p holder.Params
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid customer_id")
			return holder.Ref{}, false
		}
		p.CustomerID = &id
	}
	if v := c.Query("dependent_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid dependent_id")
			return holder.Ref{}, false
		}
		p.DependentID = &id
	}
	ref, err := p.Ref()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return holder.Ref{}, false
	}
	return ref, true
}
