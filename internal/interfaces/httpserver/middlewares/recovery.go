package middlewares

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roottrack-api/internal/interfaces/httpserver/responses"
	"roottrack-api/internal/utils/platformerrors"
)

// Recovery turns a panic into the standard 500 error body.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Str("request_id", RequestIDFromContext(c)).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Msg("recovered from panic")
		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "Unknown error occurred", "0b6f4c1e-3d2a-4e8f-9a7b-5c6d7e8f9a10")
	})
}
