package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/dto"
)

// DebtHandler serves the debt ledger.
type DebtHandler struct {
	*BaseHandler
	service *debt.Service
}

// NewDebtHandler creates a new debt handler.
func NewDebtHandler(base *BaseHandler, service *debt.Service) *DebtHandler {
	return &DebtHandler{BaseHandler: base, service: service}
}

// List handles GET /debts.
func (h *DebtHandler) List(c *gin.Context) {
	var q dto.DebtListQuery
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

// Get handles GET /debts/:id.
func (h *DebtHandler) Get(c *gin.Context) {
	recordID, ok := h.ParseID(c)
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), recordID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// UpdateNote handles PUT /debts/:id.
func (h *DebtHandler) UpdateNote(c *gin.Context) {
	recordID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateDebtNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.UpdateNote(c.Request.Context(), recordID, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// Pay handles PUT /debts/payment/:id. A non-numeric or negative amount is a
// zero payment and leaves the record unchanged.
func (h *DebtHandler) Pay(c *gin.Context) {
	recordID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.ApplyPayment(c.Request.Context(), recordID, req.Amount.Decimal)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.PaymentResponse{
		Message: "Cập nhật thanh toán thành công",
		Data:    r,
	})
}
