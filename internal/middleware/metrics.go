package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"weatherd/internal/metrics"
)

// MetricsMiddleware records per-route request counts and latency.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordRequest(route, c.Writer.Status(), time.Since(start))
	}
}
