package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/service/audit"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", h.ListAuditLogs)
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	var filters model.AuditFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	logs, err := h.service.List(c.Request.Context(), middleware.ScopeFromContext(c), &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}
