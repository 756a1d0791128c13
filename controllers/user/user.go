package userControllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	accountControllers "github.com/yoonic/atlas/controllers/account"
	"github.com/yoonic/atlas/controllers/api"
	"github.com/yoonic/atlas/models"
)

type userPatch struct {
	Status string             `json:"status"`
	Scopes *models.StringList `json:"scopes"`
}

func validUserStatus(status models.UserStatus) bool {
	switch status {
	case models.UserStatusCreated, models.UserStatusActive, models.UserStatusDisabled:
		return true
	}
	return false
}

// GET /v1/users (admin)
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.User{}).Order("created_at DESC")
		if emailFilter := c.Query("email"); emailFilter != "" {
			query = query.Where("email = ?", emailFilter)
		}
		var items []models.User
		if err := query.Find(&items).Error; err != nil {
			log.Printf("user: list failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /v1/users/:userId (admin)
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := accountControllers.GetUser(db, c.Param("userId"))
		if err != nil {
			log.Printf("user: get failed: %v", err)
			api.Internal(c)
			return
		}
		if user == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PATCH /v1/users/:userId (admin)
// Admins manage account status and scopes.
func PatchUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := accountControllers.GetUser(db, c.Param("userId"))
		if err != nil {
			log.Printf("user: get failed: %v", err)
			api.Internal(c)
			return
		}
		if user == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		var payload userPatch
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		updates := map[string]any{"updated_at": time.Now()}
		if payload.Status != "" {
			if !validUserStatus(models.UserStatus(payload.Status)) {
				api.InvalidParams(c, "status", "Invalid")
				return
			}
			updates["status"] = payload.Status
		}
		if payload.Scopes != nil {
			updates["scopes"] = *payload.Scopes
		}

		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			log.Printf("user: update failed: %v", err)
			api.Internal(c)
			return
		}
		updated, err := accountControllers.GetUser(db, user.ID)
		if err != nil {
			log.Printf("user: get failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
