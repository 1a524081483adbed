package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/middleware"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	if username == "" {
		respond.Error(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "missing or invalid token", nil)
		return
	}
	respond.Private(c, gin.H{"username": username})
}
