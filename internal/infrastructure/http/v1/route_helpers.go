package v1

import (
	"github.com/gin-gonic/gin"

	"billing/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetActive(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers:
// header CRUD plus the items sub-resource.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddItem(c *gin.Context)
	UpdateItem(c *gin.Context)
	RemoveItem(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
//
// Usage:
//
//	handler := handlers.NewActivityHandler(base, activityService)
//	RegisterCatalogRoutes(api.Group("/activities"), handler, auth.PermActivitiesView, auth.PermActivitiesEdit)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, viewPerm, editPerm string) {
	group.GET("", middleware.RequirePermission(viewPerm), handler.List)
	group.POST("", middleware.RequirePermission(editPerm), handler.Create)
	group.GET("/:id", middleware.RequirePermission(viewPerm), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(editPerm), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(editPerm), handler.Delete)
	group.POST("/:id/active", middleware.RequirePermission(editPerm), handler.SetActive)
}

// RegisterDocumentRoutes registers header CRUD and item routes for a document.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, viewPerm, editPerm string) {
	group.GET("", middleware.RequirePermission(viewPerm), handler.List)
	group.POST("", middleware.RequirePermission(editPerm), handler.Create)
	group.GET("/:id", middleware.RequirePermission(viewPerm), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(editPerm), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(editPerm), handler.Delete)

	group.POST("/:id/items", middleware.RequirePermission(editPerm), handler.AddItem)
	group.PATCH("/:id/items/:itemId", middleware.RequirePermission(editPerm), handler.UpdateItem)
	group.DELETE("/:id/items/:itemId", middleware.RequirePermission(editPerm), handler.RemoveItem)
}
