package workitems

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the work item service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches work item routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workitems", h.list)
	rg.GET("/userstories", h.userStories)
	rg.GET("/tickets", h.tickets)
	rg.POST("/mark-user-story-checked/:id", h.markChecked)
	rg.PUT("/userstories/:id/acceptance-criteria", h.updateCriteria)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), c.Query("state"))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) userStories(c *gin.Context) {
	stories, err := h.Svc.UserStories(c.Request.Context())
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, stories)
}

func (h *Handler) tickets(c *gin.Context) {
	tickets, err := h.Svc.IncompleteTickets(c.Request.Context())
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, tickets)
}

func (h *Handler) markChecked(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.MarkChecked(c.Request.Context(), id); err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "User story marked as checked", "id": id, "tag": h.Svc.CheckedTag})
}

type updateCriteriaRequest struct {
	Criteria []string `json:"criteria"`
}

func (h *Handler) updateCriteria(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, apperr.CodeValidation, "invalid request body", err.Error())
		return
	}
	if err := h.Svc.UpdateAcceptanceCriteria(c.Request.Context(), id, req.Criteria); err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, gin.H{"id": id, "criteria": req.Criteria})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, apperr.CodeValidation, "invalid work item id", nil)
		return 0, false
	}
	c.Set("workItemId", id)
	return id, true
}
