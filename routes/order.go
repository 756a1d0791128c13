package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	orderControllers "github.com/yoonic/atlas/controllers/order"
	paymentControllers "github.com/yoonic/atlas/controllers/payment"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/middleware"
)

// SetupOrderRoutes registers the order endpoints plus the payment provider
// webhook. The webhook authenticates by order knowledge, not by token.
func SetupOrderRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config, mailer email.Sender, reconciler *paymentControllers.Reconciler) {
	orders := v1.Group("/orders")
	{
		orders.GET("", middleware.ValidateToken(cfg), orderControllers.ListOrdersHandler(db))
		orders.POST("", middleware.OptionalToken(cfg), orderControllers.CreateOrderHandler(db))
		orders.GET("/ws", middleware.ValidateToken(cfg), middleware.RequireAdmin(), orderControllers.OrderFeedHandler)
		orders.GET("/:orderId", middleware.ValidateToken(cfg), orderControllers.GetOrderHandler(db))
		orders.PATCH("/:orderId", middleware.ValidateToken(cfg), middleware.RequireAdmin(), orderControllers.PatchOrderHandler(db))
		orders.POST("/:orderId/email", middleware.ValidateToken(cfg), middleware.RequireAdmin(), orderControllers.SendOrderEmailHandler(db, mailer))
		orders.POST("/:orderId/spwh", reconciler.WebhookHandler())
	}
}
