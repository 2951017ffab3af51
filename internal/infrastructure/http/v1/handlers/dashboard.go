package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/settings"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/dto"
)

// DashboardHandler serves the shared dashboard note.
type DashboardHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *settings.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// GetNote handles GET /dashboard/note.
func (h *DashboardHandler) GetNote(c *gin.Context) {
	note, err := h.service.GetNote(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NoteResponse{Note: note})
}

// SaveNote handles POST /dashboard/note.
func (h *DashboardHandler) SaveNote(c *gin.Context) {
	var req dto.NoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SaveNote(c.Request.Context(), req.Note); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NoteResponse{Success: true, Note: req.Note})
}
