package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error writes err with the HTTP status its code maps to. A queued
// offline mutation is reported as deferred success, not failure.
func Error(c *gin.Context, err error) {
	switch apperrors.Code(err) {
	case apperrors.ErrAuthenticationRequired:
		c.JSON(http.StatusUnauthorized, NewErrorResponse(err.Error()))
	case apperrors.ErrAuthorizationDenied:
		c.JSON(http.StatusForbidden, NewErrorResponse(err.Error()))
	case apperrors.ErrValidationFailed:
		resp := NewErrorResponse("validation failed")
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			resp.Fields = appErr.Fields
		}
		c.JSON(http.StatusBadRequest, resp)
	case apperrors.ErrNotFound:
		c.JSON(http.StatusNotFound, NewErrorResponse(err.Error()))
	case apperrors.ErrOfflineQueued:
		c.JSON(http.StatusAccepted, &Response{Status: "queued", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse(err.Error()))
	}
}
