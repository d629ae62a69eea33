package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/middleware"
	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/service/auth"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/validator"
)

type Handler struct {
	service   auth.AuthService
	validator *validator.Validator
}

func NewHandler(service auth.AuthService, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", h.Me)
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	tokens, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	h.service.Logout(middleware.AuthUserIDFromContext(c))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// Me returns the caller's resolved clinic scope, or 403 when the auth
// user has no usable profile yet.
func (h *Handler) Me(c *gin.Context) {
	sc := middleware.ScopeFromContext(c)
	if sc == nil {
		handler.Error(c, apperrors.AuthorizationDenied(nil))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"profile_id": sc.ProfileID,
		"clinic_id":  sc.ClinicID,
		"role":       sc.Role,
		"mode":       sc.Mode,
	}))
}
