package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/config"
	paymentControllers "github.com/yoonic/atlas/controllers/payment"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
	"github.com/yoonic/atlas/payments"
	"github.com/yoonic/atlas/routes"
)

func main() {
	log.Println("Starting atlas...")

	cfg := config.Load()

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Collection{},
		&models.Content{},
		&models.Cart{},
		&models.Checkout{},
		&models.Order{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	r := gin.Default()

	// Catalog CSVs and image uploads can get large.
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Metrics())

	r.Static("/uploads", cfg.Uploads.Dir)
	r.GET("/metrics", middleware.MetricsHandler())

	mailer := email.NewMailgun(cfg.Mailgun, "templates")
	reconciler := paymentControllers.NewReconciler(db, payments.NewClient(cfg.Switch), mailer, cfg.Switch.Enabled)

	routes.SetupRoutes(r, db, cfg, mailer, reconciler)

	log.Printf("Server running on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db
}
