package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/dto"
)

// ImportHandler serves import receipts.
type ImportHandler struct {
	*BaseHandler
	service *import_receipt.Service
}

// NewImportHandler creates a new import receipt handler.
func NewImportHandler(base *BaseHandler, service *import_receipt.Service) *ImportHandler {
	return &ImportHandler{BaseHandler: base, service: service}
}

// NewCode handles GET /imports/new-code.
func (h *ImportHandler) NewCode(c *gin.Context) {
	code, err := h.service.PreviewCode(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CodeResponse{Code: code})
}

// List handles GET /imports.
func (h *ImportHandler) List(c *gin.Context) {
	var q dto.ReceiptListQuery
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

// Get handles GET /imports/:id.
func (h *ImportHandler) Get(c *gin.Context) {
	receiptID, ok := h.ParseID(c)
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// Create handles POST /imports.
func (h *ImportHandler) Create(c *gin.Context) {
	var req dto.CreateImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Create(c.Request.Context(), req.ToInput(c.GetHeader(HeaderIdempotencyKey)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.CreatedResponse[*import_receipt.Receipt]{
		Receipt: r,
		Message: "Nhập kho thành công!",
	})
}

// Delete handles DELETE /imports/:id.
func (h *ImportHandler) Delete(c *gin.Context) {
	receiptID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), receiptID); err != nil {
		h.Error(c, err)
		return
	}
	h.Message(c, "Đã xóa phiếu nhập. Mã phiếu này sẽ không được cấp lại")
}
