package sync

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/offline"
)

// Handler exposes the offline queue state so clients can surface a
// "pending changes" indicator.
type Handler struct {
	drainer *offline.Drainer
	prober  *offline.Prober
}

func NewHandler(drainer *offline.Drainer, prober *offline.Prober) *Handler {
	return &Handler{drainer: drainer, prober: prober}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	syncGroup := r.Group("/sync")
	{
		syncGroup.GET("/status", h.Status)
		syncGroup.POST("/drain", h.Drain)
	}
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"online":  h.prober.Online(),
		"pending": h.drainer.Pending(),
	}))
}

// Drain forces an immediate replay attempt instead of waiting for the
// next tick.
func (h *Handler) Drain(c *gin.Context) {
	h.drainer.Drain(c.Request.Context())
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"pending": h.drainer.Pending(),
	}))
}
