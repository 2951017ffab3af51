package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/dto"
)

// PartnerHandler serves customers and suppliers.
type PartnerHandler struct {
	*BaseHandler
	service *partner.Service
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(base *BaseHandler, service *partner.Service) *PartnerHandler {
	return &PartnerHandler{BaseHandler: base, service: service}
}

// List handles GET /partners?type=&keyword=.
func (h *PartnerHandler) List(c *gin.Context) {
	var q dto.PartnerListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /partners/:id.
func (h *PartnerHandler) Get(c *gin.Context) {
	partnerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partnerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Create handles POST /partners.
func (h *PartnerHandler) Create(c *gin.Context) {
	var req dto.CreatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Update handles PUT /partners/:id.
func (h *PartnerHandler) Update(c *gin.Context) {
	partnerID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), partnerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete handles DELETE /partners/:id.
func (h *PartnerHandler) Delete(c *gin.Context) {
	partnerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), partnerID); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Đã xóa đối tác thành công")
}
