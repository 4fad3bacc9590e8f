package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for registry handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByName(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// BillRouteHandler defines the interface for bill handlers.
type BillRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
	UpdateDetails(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard registry routes.
// byName overrides the by-name handler when set.
//
// Usage:
//
//	handler := handlers.NewStockItemHandler(base, svc)
//	RegisterCatalogRoutes(api.Group("/inventory"), handler, nil)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, byName gin.HandlerFunc) {
	if byName == nil {
		byName = handler.GetByName
	}
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/by-name/:name", byName)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}

// RegisterBillRoutes registers the bill routes. create runs before
// handler.Create, e.g. idempotency.
func RegisterBillRoutes(group *gin.RouterGroup, handler BillRouteHandler, create ...gin.HandlerFunc) {
	group.GET("", handler.List)
	chain := make([]gin.HandlerFunc, 0, len(create)+1)
	chain = append(chain, create...)
	group.POST("", append(chain, handler.Create)...)
	group.GET("/:id", handler.Get)
	group.DELETE("/:id", handler.Delete)
	group.PUT("/:id/details", handler.UpdateDetails)
}
