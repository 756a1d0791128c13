package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	collectionControllers "github.com/yoonic/atlas/controllers/collection"
	productControllers "github.com/yoonic/atlas/controllers/product"
	"github.com/yoonic/atlas/middleware"
)

// SetupCatalogRoutes registers products and collections. Reads are public
// (disabled entries hidden), writes are admin only.
func SetupCatalogRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	products := v1.Group("/products")
	{
		products.GET("", middleware.OptionalToken(cfg), productControllers.ListProductsHandler(db))
		products.GET("/:productId", middleware.OptionalToken(cfg), productControllers.GetProductHandler(db))
		products.POST("", middleware.ValidateToken(cfg), middleware.RequireAdmin(), productControllers.CreateProductHandler(db))
		products.PUT("/:productId", middleware.ValidateToken(cfg), middleware.RequireAdmin(), productControllers.UpdateProductHandler(db))
		products.PATCH("/:productId", middleware.ValidateToken(cfg), middleware.RequireAdmin(), productControllers.UpdateProductHandler(db))
		products.GET("/export", middleware.ValidateToken(cfg), middleware.RequireAdmin(), productControllers.ExportProductsHandler(db))
	}

	collections := v1.Group("/collections")
	{
		collections.GET("", middleware.OptionalToken(cfg), collectionControllers.ListCollectionsHandler(db))
		collections.GET("/:collectionId", middleware.OptionalToken(cfg), collectionControllers.GetCollectionHandler(db))
		collections.POST("", middleware.ValidateToken(cfg), middleware.RequireAdmin(), collectionControllers.CreateCollectionHandler(db))
		collections.PUT("/:collectionId", middleware.ValidateToken(cfg), middleware.RequireAdmin(), collectionControllers.UpdateCollectionHandler(db))
	}
}
