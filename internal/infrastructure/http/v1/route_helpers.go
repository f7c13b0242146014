// Package v1 provides HTTP API version 1.
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

// DocumentRouteHandler defines the interface for document handlers.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Submit(c *gin.Context)
	Cancel(c *gin.Context)
	History(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// Catalog entries are addressed by code.
//
// Usage:
//
//	handler := handlers.NewItemHandler(base, container.Items)
//	RegisterCatalogRoutes(catalogs.Group("/items"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:code", handler.Get)
	group.PUT("/:code", handler.Update)
	group.DELETE("/:code", handler.Delete)
}

// RegisterDocumentRoutes registers CRUD and lifecycle routes for a document.
// Documents are addressed by name.
//
// Usage:
//
//	handler := handlers.NewPurchaseReceiptHandler(base, container.PurchaseReceipts)
//	RegisterDocumentRoutes(documents.Group("/purchase-receipts"), handler)
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:name", handler.Get)
	group.PUT("/:name", handler.Update)
	group.DELETE("/:name", handler.Delete)
	group.POST("/:name/submit", handler.Submit)
	group.POST("/:name/cancel", handler.Cancel)
	group.GET("/:name/history", handler.History)
}
