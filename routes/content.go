package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	contentControllers "github.com/yoonic/atlas/controllers/content"
	"github.com/yoonic/atlas/middleware"
)

// SetupContentRoutes registers the content endpoints (articles and banners).
func SetupContentRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	contents := v1.Group("/contents")
	{
		contents.GET("", middleware.OptionalToken(cfg), contentControllers.ListContentsHandler(db))
		contents.GET("/:contentId", middleware.OptionalToken(cfg), contentControllers.GetContentHandler(db))
		contents.POST("", middleware.ValidateToken(cfg), middleware.RequireAdmin(), contentControllers.CreateContentHandler(db))
		contents.PUT("/:contentId", middleware.ValidateToken(cfg), middleware.RequireAdmin(), contentControllers.UpdateContentHandler(db))
	}
}
