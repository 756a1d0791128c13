package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	paymentControllers "github.com/yoonic/atlas/controllers/payment"
	"github.com/yoonic/atlas/email"
)

// SetupRoutes registers every endpoint under /v1.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, mailer email.Sender, reconciler *paymentControllers.Reconciler) {
	v1 := r.Group("/v1")

	SetupAccountRoutes(v1, db, cfg, mailer)
	SetupCartRoutes(v1, db, cfg)
	SetupCheckoutRoutes(v1, db, cfg)
	SetupOrderRoutes(v1, db, cfg, mailer, reconciler)
	SetupCatalogRoutes(v1, db, cfg)
	SetupContentRoutes(v1, db, cfg)
	SetupFileRoutes(v1, db, cfg)
}
