package expense

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/cache"
	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/offline"
	"github.com/AvaniK-2002/asvicare/internal/service/expense"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

type Handler struct {
	service   expense.ExpenseService
	validator *validator.Validator
	cache     *cache.Cache
	gate      *handler.SyncGate
}

func NewHandler(service expense.ExpenseService, v *validator.Validator, c *cache.Cache, gate *handler.SyncGate) *Handler {
	return &Handler{service: service, validator: v, cache: c, gate: gate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	expenses := r.Group("/expenses")
	{
		expenses.POST("", h.CreateExpense)
		expenses.GET("", h.ListExpenses)
		expenses.GET("/:id", h.GetExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}
}

func (h *Handler) CreateExpense(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var req model.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), sc, &req)
	if err != nil {
		if h.gate.ShouldQueue(err) {
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpCreate, model.KindExpense, uuid.Nil, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindExpense, sc.ClinicID)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid expense ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), middleware.ScopeFromContext(c), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListExpenses(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var filters model.ExpenseFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	expenses, err := h.service.List(c.Request.Context(), sc, &filters)
	if err != nil {
		if sc != nil && apperrors.Is(err, apperrors.ErrUpstreamFailure) {
			if cached, ok := h.cache.GetList(model.KindExpense, sc.ClinicID).([]*model.Expense); ok {
				c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
				return
			}
		}
		handler.Error(c, err)
		return
	}

	if sc != nil && filters.Mode == "" && filters.Category == "" && filters.From.IsZero() && filters.To.IsZero() {
		h.cache.SetList(model.KindExpense, sc.ClinicID, expenses)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(expenses))
}

func (h *Handler) UpdateExpense(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid expense ID"))
		return
	}

	var req model.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), sc, id, &req)
	if err != nil {
		if h.gate.ShouldQueue(err) {
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpUpdate, model.KindExpense, id, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindExpense, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid expense ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), sc, id); err != nil {
		if h.gate.ShouldQueue(err) {
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpDelete, model.KindExpense, id, nil))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindExpense, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
