package birthday

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/domain/holder"
	"fitstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createPassRequest struct {
	holder.Params
}

// CreatePass is the controlled creation path: it refuses unless today is the
// holder's birthday. Calling it twice returns the same pass.
func (h *Handler) CreatePass(c *gin.Context) {
	var req createPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	ref, err := req.Ref()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	pass, err := h.service.CreatePass(c.Request.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, holder.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, ErrNotBirthdayToday):
			response.Error(c, http.StatusConflict, "NOT_BIRTHDAY_TODAY", err.Error())
		case errors.Is(err, ErrNoBirthDate):
			response.Error(c, http.StatusConflict, "NO_BIRTH_DATE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		}
		return
	}
	response.Success(c, http.StatusCreated, pass)
}

// TodaysBirthdays lists holders whose stored month/day matches today.
func (h *Handler) TodaysBirthdays(c *gin.Context) {
	infos, err := h.service.FindTodaysBirthdays(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	type row struct {
		Kind      string `json:"kind"`
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		BirthDate string `json:"birth_date"`
	}
	out := make([]row, 0, len(infos))
	for _, info := range infos {
		out = append(out, row{
			Kind:      string(info.Ref.Kind),
			ID:        info.Ref.ID,
			Name:      info.Name,
			BirthDate: info.BirthDate,
		})
	}
	response.Success(c, http.StatusOK, out)
}
