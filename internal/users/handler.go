package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
)

const loginSuccessMessage = "Inicio de sesión exitoso"

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

func (h *Handler) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		respond.Error(c, http.StatusBadRequest, apperr.CodeValidation, "username and password are required", nil)
		return
	}
	c.Set("username", username)

	token, err := h.Svc.Login(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.AppError(c, apperr.Unauthorized("Credenciales inválidas"))
			return
		}
		respond.AppError(c, apperr.Internal("login failed", err))
		return
	}
	respond.Private(c, gin.H{"message": loginSuccessMessage, "token": token})
}
