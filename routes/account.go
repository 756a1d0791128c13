package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	accountControllers "github.com/yoonic/atlas/controllers/account"
	userControllers "github.com/yoonic/atlas/controllers/user"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/middleware"
)

// SetupAccountRoutes registers the self-service account endpoints and the
// admin user management surface.
func SetupAccountRoutes(v1 *gin.RouterGroup, db *gorm.DB, cfg *config.Config, mailer email.Sender) {
	account := v1.Group("/account")
	{
		account.POST("", accountControllers.RegisterHandler(db, mailer))
		account.POST("/confirm", accountControllers.ConfirmAccountHandler(db))
		account.POST("/login", accountControllers.LoginHandler(db, cfg))
		account.GET("", middleware.ValidateToken(cfg), accountControllers.GetAccountHandler(db))
		account.PATCH("", middleware.ValidateToken(cfg), accountControllers.PatchAccountHandler(db))
	}

	users := v1.Group("/users")
	users.Use(middleware.ValidateToken(cfg), middleware.RequireAdmin())
	{
		users.GET("", userControllers.ListUsersHandler(db))
		users.GET("/:userId", userControllers.GetUserHandler(db))
		users.PATCH("/:userId", userControllers.PatchUserHandler(db))
	}
}
