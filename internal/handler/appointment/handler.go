package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/cache"
	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/offline"
	"github.com/AvaniK-2002/asvicare/internal/service/appointment"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

type Handler struct {
	service   appointment.AppointmentService
	validator *validator.Validator
	cache     *cache.Cache
	gate      *handler.SyncGate
}

func NewHandler(service appointment.AppointmentService, v *validator.Validator, c *cache.Cache, gate *handler.SyncGate) *Handler {
	return &Handler{service: service, validator: v, cache: c, gate: gate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var req model.CreateAppointmentRequest
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
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpCreate, model.KindAppointment, uuid.Nil, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindAppointment, sc.ClinicID)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), middleware.ScopeFromContext(c), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointments, err := h.service.List(c.Request.Context(), sc, &filters)
	if err != nil {
		if sc != nil && apperrors.Is(err, apperrors.ErrUpstreamFailure) {
			if cached, ok := h.cache.GetList(model.KindAppointment, sc.ClinicID).([]*model.Appointment); ok {
				c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
				return
			}
		}
		handler.Error(c, err)
		return
	}

	unfiltered := filters.PatientID == uuid.Nil && filters.AssigneeID == uuid.Nil &&
		filters.Status == "" && filters.From.IsZero() && filters.To.IsZero()
	if sc != nil && unfiltered {
		h.cache.SetList(model.KindAppointment, sc.ClinicID, appointments)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
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
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpUpdate, model.KindAppointment, id, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindAppointment, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), sc, id); err != nil {
		if h.gate.ShouldQueue(err) {
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpDelete, model.KindAppointment, id, nil))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindAppointment, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
