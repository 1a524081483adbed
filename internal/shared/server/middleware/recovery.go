package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
func Recovery(logger telemetry.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = telemetry.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
