package visit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/cache"
	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/offline"
	"github.com/AvaniK-2002/asvicare/internal/service/media"
	"github.com/AvaniK-2002/asvicare/internal/service/visit"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type Handler struct {
	service   visit.VisitService
	media     media.MediaService
	validator *validator.Validator
	cache     *cache.Cache
	gate      *handler.SyncGate
}

func NewHandler(service visit.VisitService, mediaSvc media.MediaService, v *validator.Validator, c *cache.Cache, gate *handler.SyncGate) *Handler {
	return &Handler{service: service, media: mediaSvc, validator: v, cache: c, gate: gate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	visits := r.Group("/visits")
	{
		visits.POST("", h.CreateVisit)
		visits.GET("", h.ListVisits)
		visits.GET("/:id", h.GetVisit)
		visits.PUT("/:id", h.UpdateVisit)
		visits.DELETE("/:id", h.DeleteVisit)

		visits.POST("/:id/photo", h.UploadPhoto)
		visits.GET("/:id/photo-url", h.PhotoURL)
	}
}

func (h *Handler) CreateVisit(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var req model.CreateVisitRequest
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
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpCreate, model.KindVisit, uuid.Nil, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindVisit, sc.ClinicID)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetVisit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid visit ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), middleware.ScopeFromContext(c), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListVisits(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	var filters model.VisitFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	visits, err := h.service.List(c.Request.Context(), sc, &filters)
	if err != nil {
		if sc != nil && apperrors.Is(err, apperrors.ErrUpstreamFailure) {
			if cached, ok := h.cache.GetList(model.KindVisit, sc.ClinicID).([]*model.Visit); ok {
				c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
				return
			}
		}
		handler.Error(c, err)
		return
	}

	if sc != nil && filters.PatientID == uuid.Nil && filters.From.IsZero() && filters.To.IsZero() {
		h.cache.SetList(model.KindVisit, sc.ClinicID, visits)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(visits))
}

func (h *Handler) UpdateVisit(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid visit ID"))
		return
	}

	var req model.UpdateVisitRequest
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
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpUpdate, model.KindVisit, id, &req))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindVisit, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteVisit(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid visit ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), sc, id); err != nil {
		if h.gate.ShouldQueue(err) {
			handler.Error(c, h.gate.Queue(c.Request.Context(), sc, offline.OpDelete, model.KindVisit, id, nil))
			return
		}
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindVisit, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// UploadPhoto stores a prescription image in the object store and
// attaches its path to the visit. Photo upload is online-only.
func (h *Handler) UploadPhoto(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid visit ID"))
		return
	}

	if h.media == nil {
		handler.Error(c, apperrors.Upstream("photo upload", nil))
		return
	}

	visitRow, err := h.service.Get(c.Request.Context(), sc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("photo file is required"))
		return
	}
	if fileHeader.Size > maxPhotoSize {
		handler.Error(c, apperrors.ValidationFailed(map[string]string{"photo": "file too large"}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read photo"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	path, err := h.media.Upload(c.Request.Context(), sc, visitRow.PatientID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		handler.Error(c, err)
		return
	}

	updated, err := h.service.AttachPhoto(c.Request.Context(), sc, id, path)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.cache.InvalidateList(model.KindVisit, sc.ClinicID)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

// PhotoURL returns a short-lived signed URL for the visit's photo.
func (h *Handler) PhotoURL(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid visit ID"))
		return
	}

	if h.media == nil {
		handler.Error(c, apperrors.Upstream("photo URL generation", nil))
		return
	}

	visitRow, err := h.service.Get(c.Request.Context(), sc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if visitRow.PhotoPath == "" {
		handler.Error(c, apperrors.NotFound("visit photo", nil))
		return
	}

	url, err := h.media.SignedURL(c.Request.Context(), sc, visitRow.PhotoPath)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"url": url}))
}
