package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	fileControllers "github.com/yoonic/atlas/controllers/file"
	"github.com/yoonic/atlas/middleware"
)

// SetupFileRoutes registers the upload endpoint (images and catalog CSVs).
func SetupFileRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	v1.POST("/files", middleware.ValidateToken(cfg), middleware.RequireAdmin(), fileControllers.UploadHandler(db, cfg))
}
