package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yoonic/atlas/config"
	"github.com/yoonic/atlas/models"
)

// IssueToken signs a JWT for the given user carrying its scopes.
func IssueToken(cfg *config.Config, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"scopes":  []string(user.Scopes),
		"exp":     time.Now().Add(cfg.JWT.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// NewAccessToken mints the opaque credential that substitutes for a user ID
// on anonymous carts and checkouts.
func NewAccessToken() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return uuid.NewString()
	}
	return uuid.NewString() + hex.EncodeToString(bytes)
}
