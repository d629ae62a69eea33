package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AvaniK-2002/asvicare/pkg/metrics"
)

// Metrics records request counts and latencies, labeled by route template
// so path parameters do not explode cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
