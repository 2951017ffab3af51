package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/dto"
)

// ExportHandler serves export receipts.
type ExportHandler struct {
	*BaseHandler
	service *export_receipt.Service
}

// NewExportHandler creates a new export receipt handler.
func NewExportHandler(base *BaseHandler, service *export_receipt.Service) *ExportHandler {
	return &ExportHandler{BaseHandler: base, service: service}
}

// NewCode handles GET /exports/new-code.
func (h *ExportHandler) NewCode(c *gin.Context) {
	code, err := h.service.PreviewCode(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CodeResponse{Code: code})
}

// List handles GET /exports.
func (h *ExportHandler) List(c *gin.Context) {
	var q dto.ReceiptListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, dto.FromExport))
}

// Get handles GET /exports/:id.
func (h *ExportHandler) Get(c *gin.Context) {
	receiptID, ok := h.ParseID(c)
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromExport(r))
}

// Create handles POST /exports.
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.CreateExportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Create(c.Request.Context(), req.ToInput(c.GetHeader(HeaderIdempotencyKey)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.CreatedResponse[dto.ExportResponse]{
		Receipt: dto.FromExport(r),
		Message: "Xuất kho thành công!",
	})
}

// Update handles PUT /exports/:id. Only the note and hide_price change.
func (h *ExportHandler) Update(c *gin.Context) {
	receiptID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateExportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Update(c.Request.Context(), receiptID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromExport(r))
}

// Delete handles DELETE /exports/:id.
func (h *ExportHandler) Delete(c *gin.Context) {
	receiptID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), receiptID); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Đã xóa phiếu, hoàn kho và cập nhật lại điểm.")
}
