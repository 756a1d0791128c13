package accountControllers

import (
	"errors"
	"log"
	"net/http"
	"net/mail"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yoonic/atlas/auth"
	"github.com/yoonic/atlas/config"
	"github.com/yoonic/atlas/controllers/api"
	"github.com/yoonic/atlas/email"
	"github.com/yoonic/atlas/middleware"
	"github.com/yoonic/atlas/models"
)

// RegisterUser creates a pending account with a bcrypt password hash and
// emails the confirmation token. Emails are unique across accounts; the
// account stays in the created status until the token is redeemed. A failed
// confirmation email is logged, not surfaced.
func RegisterUser(db *gorm.DB, mailer email.Sender, name, emailAddr, password string) (*models.User, error) {
	emailAddr = email.SanitizeAddress(emailAddr)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", emailAddr).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewValidationError("email", "Already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		ID:                uuid.NewString(),
		Status:            models.UserStatusCreated,
		Name:              name,
		Email:             emailAddr,
		Password:          string(hash),
		ConfirmationToken: auth.NewAccessToken(),
		Scopes:            models.StringList{},
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	if err := mailer.SendTemplate(email.TemplateAccountConfirmation, user.Email, map[string]any{
		"name":  user.Name,
		"email": user.Email,
		"token": user.ConfirmationToken,
	}, ""); err != nil {
		log.Printf("account: unable to send confirmation email to %s: %v", user.Email, err)
	}
	return &user, nil
}

// ConfirmAccount activates a pending account when the token matches.
// Unknown emails, already-active accounts and wrong tokens all collapse into
// the same validation error.
func ConfirmAccount(db *gorm.DB, emailAddr, token string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email.SanitizeAddress(emailAddr)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("token", "Invalid")
	}
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusCreated || token == "" || token != user.ConfirmationToken {
		return nil, models.NewValidationError("token", "Invalid")
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"status":             models.UserStatusActive,
		"confirmation_token": "",
		"updated_at":         time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return GetUser(db, user.ID)
}

// Authenticate checks the credentials against an active account.
func Authenticate(db *gorm.DB, emailAddr, password string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email.SanitizeAddress(emailAddr)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return &user, nil
}

func GetUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type confirmRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type accountPatch struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// POST /v1/account
func RegisterHandler(db *gorm.DB, mailer email.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}
		if _, err := mail.ParseAddress(email.SanitizeAddress(req.Email)); err != nil {
			api.InvalidParams(c, "email", "Must be a valid email")
			return
		}

		user, err := RegisterUser(db, mailer, req.Name, req.Email, req.Password)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("account: register failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// POST /v1/account/confirm
func ConfirmAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		user, err := ConfirmAccount(db, req.Email, req.Token)
		if err != nil {
			if ve, ok := models.AsValidationError(err); ok {
				api.InvalidParams(c, ve.Param, ve.Message)
				return
			}
			log.Printf("account: confirm failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// POST /v1/account/login
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		user, err := Authenticate(db, req.Email, req.Password)
		if err != nil {
			log.Printf("account: login failed: %v", err)
			api.Internal(c)
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := auth.IssueToken(cfg, user)
		if err != nil {
			log.Printf("account: unable to issue token for %s: %v", user.ID, err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"authToken": token, "user": user})
	}
}

// GET /v1/account
func GetAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		user, err := GetUser(db, userID)
		if err != nil {
			log.Printf("account: get failed: %v", err)
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

// PATCH /v1/account
// Owners can change their display name and password, nothing else.
func PatchAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		user, err := GetUser(db, userID)
		if err != nil {
			log.Printf("account: get failed: %v", err)
			api.Internal(c)
			return
		}
		if user == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		var payload accountPatch
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		updates := map[string]any{"updated_at": time.Now()}
		if payload.Name != "" {
			updates["name"] = payload.Name
		}
		if payload.Password != "" {
			if len(payload.Password) < 6 {
				api.InvalidParams(c, "password", "Must be at least 6 characters")
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("account: unable to hash password: %v", err)
				api.Internal(c)
				return
			}
			updates["password"] = string(hash)
		}

		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			log.Printf("account: update failed: %v", err)
			api.Internal(c)
			return
		}
		updated, err := GetUser(db, user.ID)
		if err != nil {
			log.Printf("account: get failed: %v", err)
			api.Internal(c)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
