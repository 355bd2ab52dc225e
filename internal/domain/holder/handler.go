package holder

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fitstudio/internal/pkg/clock"
	"fitstudio/internal/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type createCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
}

type createDependentRequest struct {
	CustomerID int64  `json:"customer_id" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Relation   string `json:"relation"`
	BirthDate  string `json:"birth_date"`
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func validBirthDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := clock.MonthDayOf(s)
	return err == nil
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if !validBirthDate(req.BirthDate) {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "birth_date must be YYYY-MM-DD")
		return
	}

	cust := &Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     nullable(req.Email),
		Phone:     nullable(req.Phone),
		BirthDate: nullable(req.BirthDate),
		CreatedAt: time.Now(),
	}
	if err := h.repo.CreateCustomer(c.Request.Context(), cust); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, h.customerView(cust))
}

func (h *Handler) CreateDependent(c *gin.Context) {
	var req createDependentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if !validBirthDate(req.BirthDate) {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "birth_date must be YYYY-MM-DD")
		return
	}
	if _, err := h.repo.GetCustomer(c.Request.Context(), req.CustomerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	dep := &Dependent{
		CustomerID: req.CustomerID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Relation:   nullable(req.Relation),
		BirthDate:  nullable(req.BirthDate),
		CreatedAt:  time.Now(),
	}
	if err := h.repo.CreateDependent(c.Request.Context(), dep); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, h.dependentView(dep))
}

// GetCustomer returns the account with its dependents and scannable codes.
func (h *Handler) GetCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid customer id")
		return
	}
	cust, err := h.repo.GetCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	deps, err := h.repo.ListDependents(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	depViews := make([]gin.H, 0, len(deps))
	for i := range deps {
		depViews = append(depViews, h.dependentView(&deps[i]))
	}
	view := h.customerView(cust)
	view["dependents"] = depViews
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) SearchCustomers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "missing search query")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	customers, err := h.repo.SearchCustomers(c.Request.Context(), query, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	out := make([]gin.H, 0, len(customers))
	for i := range customers {
		out = append(out, h.customerView(&customers[i]))
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) customerView(cust *Customer) gin.H {
	code, _ := EncodeCode(CustomerRef(cust.ID))
	return gin.H{
		"id":         cust.ID,
		"first_name": cust.FirstName,
		"last_name":  cust.LastName,
		"email":      cust.Email.String,
		"phone":      cust.Phone.String,
		"birth_date": cust.BirthDate.String,
		"code":       code,
	}
}

func (h *Handler) dependentView(dep *Dependent) gin.H {
	code, _ := EncodeCode(DependentRef(dep.ID))
	return gin.H{
		"id":          dep.ID,
		"customer_id": dep.CustomerID,
		"first_name":  dep.FirstName,
		"last_name":   dep.LastName,
		"relation":    dep.Relation.String,
		"birth_date":  dep.BirthDate.String,
		"code":        code,
	}
}
