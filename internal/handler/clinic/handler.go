package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/service/clinic"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

type Handler struct {
	service   clinic.ClinicService
	validator *validator.Validator
}

func NewHandler(service clinic.ClinicService, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinic")
	{
		clinics.GET("", h.GetClinic)
		clinics.PUT("", h.UpdateClinic)
		clinics.GET("/members", h.ListMembers)
	}
}

func (h *Handler) GetClinic(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), middleware.ScopeFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.ScopeFromContext(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.service.Members(c.Request.Context(), middleware.ScopeFromContext(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}
