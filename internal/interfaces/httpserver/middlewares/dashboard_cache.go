package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type cacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// InvalidateDashboard drops the cached dashboard after any successful write.
func InvalidateDashboard(cache cacheInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			cache.Invalidate(c.Request.Context())
		}
	}
}
