package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	cartControllers "github.com/yoonic/atlas/controllers/cart"
	"github.com/yoonic/atlas/middleware"
)

// SetupCartRoutes registers the cart endpoints. Carts work for anonymous
// customers too, so the token is optional everywhere except the admin
// listing.
func SetupCartRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	carts := v1.Group("/carts")
	{
		carts.POST("", middleware.OptionalToken(cfg), cartControllers.CreateCartHandler(db))
		carts.GET("", middleware.ValidateToken(cfg), middleware.RequireAdmin(), cartControllers.ListCartsHandler(db))
		carts.GET("/:cartId", middleware.OptionalToken(cfg), cartControllers.GetCartHandler(db))
		carts.PATCH("/:cartId", middleware.OptionalToken(cfg), cartControllers.PatchCartHandler(db))
	}
}
