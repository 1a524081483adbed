package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if username := c.GetString("username"); username != "" {
		fields["username"] = username
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// AppError translates err through the apperr taxonomy. Unclassified errors
// become a generic 500 without leaking their text.
func AppError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		telemetry.Error("http.unclassified_error", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err.Error(),
		})
		Error(c, http.StatusInternalServerError, apperr.CodeInternal, "internal error", nil)
		return
	}
	var details interface{}
	if appErr.Details != "" {
		details = appErr.Details
	}
	if appErr.Err != nil {
		telemetry.Warn("http.upstream_cause", map[string]any{
			"request_id": c.GetString("requestId"),
			"kind":       appErr.Kind.String(),
			"error":      appErr.Err.Error(),
		})
	}
	Error(c, apperr.HTTPStatus(appErr.Kind), appErr.Code, appErr.Message, details)
}
