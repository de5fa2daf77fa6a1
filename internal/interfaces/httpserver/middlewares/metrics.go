package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roottrack-api/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP request metrics.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
