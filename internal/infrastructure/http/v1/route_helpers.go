// Package v1 provides the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// ReceiptRouteHandler defines the interface for receipt handlers.
// Receipts are created and deleted, never rewritten.
type ReceiptRouteHandler interface {
	NewCode(c *gin.Context)
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
}

// ReceiptUpdateHandler is an optional interface for receipts with editable
// header fields.
type ReceiptUpdateHandler interface {
	Update(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}

// RegisterReceiptRoutes registers the routes of a receipt type. The
// new-code route is registered before /:id so it is never read as an id.
// If the handler also implements ReceiptUpdateHandler, PUT /:id is added.
func RegisterReceiptRoutes(group *gin.RouterGroup, handler ReceiptRouteHandler) {
	group.GET("/new-code", handler.NewCode)
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.DELETE("/:id", handler.Delete)

	if updater, ok := handler.(ReceiptUpdateHandler); ok {
		group.PUT("/:id", updater.Update)
	}
}
