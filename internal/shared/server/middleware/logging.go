package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging(logger telemetry.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = telemetry.Default()
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"username":    UsernameFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if workItemID, ok := c.Get("workItemId"); ok {
			fields["work_item_id"] = workItemID
		}
		if lang, ok := c.Get("analysisLanguage"); ok {
			fields["analysis_language"] = lang
		}
		logger.Info("request.complete", fields)
	}
}
