package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	checkoutControllers "github.com/yoonic/atlas/controllers/checkout"
	"github.com/yoonic/atlas/middleware"
)

// SetupCheckoutRoutes registers the checkout endpoints, token optional for
// anonymous checkouts.
func SetupCheckoutRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	checkouts := v1.Group("/checkouts")
	checkouts.Use(middleware.OptionalToken(cfg))
	{
		checkouts.POST("", checkoutControllers.CreateCheckoutHandler(db))
		checkouts.GET("/:checkoutId", checkoutControllers.GetCheckoutHandler(db))
		checkouts.PATCH("/:checkoutId", checkoutControllers.PatchCheckoutHandler(db))
	}
}
