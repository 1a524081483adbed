package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Private writes a 200 response that intermediaries must not store, for
// bodies carrying session tokens or identity.
func Private(c *gin.Context, payload any) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	JSON(c, http.StatusOK, payload)
}
