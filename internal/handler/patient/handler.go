package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/cache"
	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/offline"
	"github.com/AvaniK-2002/asvicare/internal/service/patient"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

type Handler struct {
	service   patient.PatientService
	validator *validator.Validator
	cache     *cache.Cache
	gate      *handler.SyncGate
}

func NewHandler(service patient.PatientService, v *validator.Validator, c *cache.Cache, gate *handler.SyncGate) *Handler {
	return &Handler{service: service, validator: v, cache: c, gate: gate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var req model.CreatePatientRequest
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
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpCreate, model.KindPatient, uuid.Nil, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindPatient, sc.ClinicID)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), middleware.ScopeFromContext(c), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

// ListPatients serves from the backend when it can, refreshing the
// clinic's cached list; on an upstream failure it falls back to the last
// cached copy rather than erroring.
func (h *Handler) ListPatients(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var filters model.PatientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patients, err := h.service.List(c.Request.Context(), sc, &filters)
	if err != nil {
		if sc != nil && apperrors.Is(err, apperrors.ErrUpstreamFailure) {
			if cached, ok := h.cache.GetList(model.KindPatient, sc.ClinicID).([]*model.Patient); ok {
				c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
				return
			}
		}
		handler.Error(c, err)
		return
	}

	if sc != nil && filters.Mode == "" && filters.SearchTerm == "" {
		h.cache.SetList(model.KindPatient, sc.ClinicID, patients)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
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
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpUpdate, model.KindPatient, id, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindPatient, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), sc, id); err != nil {
		if h.gate.ShouldQueue(err) {
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpDelete, model.KindPatient, id, nil))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindPatient, sc.ClinicID)
	h.cache.InvalidateList(model.KindVisit, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
