package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yoonic/atlas/config"
)

const (
	ctxUserID = "user_id"
	ctxScopes = "scopes"
)

// bearerToken pulls the JWT from the Authorization header, falling back to
// the token query parameter for websocket clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

func parseToken(c *gin.Context, secret string) (jwt.MapClaims, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, errors.New("authorization token is missing")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if id, ok := claims["user_id"].(string); ok {
		c.Set(ctxUserID, id)
	}
	var scopes []string
	if raw, ok := claims["scopes"].([]any); ok {
		for _, s := range raw {
			if str, ok := s.(string); ok {
				scopes = append(scopes, str)
			}
		}
	}
	c.Set(ctxScopes, scopes)
}

// ValidateToken rejects requests without a valid bearer token.
func ValidateToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c, cfg.JWT.Secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalToken parses a bearer token when present but lets anonymous
// requests through. Cart/checkout/order flows authorize those via the
// resource's access token instead.
func OptionalToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) != "" {
			claims, err := parseToken(c, cfg.JWT.Secret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				c.Abort()
				return
			}
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin gates management endpoints on the admin scope. Must run after
// ValidateToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin scope required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}

// IsAdmin reports whether the request carries the admin scope.
func IsAdmin(c *gin.Context) bool {
	raw, ok := c.Get(ctxScopes)
	if !ok {
		return false
	}
	scopes, ok := raw.([]string)
	if !ok {
		return false
	}
	for _, s := range scopes {
		if s == "admin" {
			return true
		}
	}
	return false
}
