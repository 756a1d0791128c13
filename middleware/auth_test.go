package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoonic/atlas/auth"
	"github.com/yoonic/atlas/config"
	"github.com/yoonic/atlas/models"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret", TTL: time.Hour}}
}

func adminRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/feed", ValidateToken(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestValidateTokenAcceptsQueryParameter(t *testing.T) {
	cfg := testConfig()
	token, err := auth.IssueToken(cfg, &models.User{ID: "user-1", Scopes: models.StringList{"admin"}})
	require.NoError(t, err)
	router := adminRouter(cfg)

	// Websocket clients cannot set headers, so the token rides the query.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateTokenRejectsAnonymous(t *testing.T) {
	router := adminRouter(testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed?token=not-a-jwt", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminBlocksCustomerTokens(t *testing.T) {
	cfg := testConfig()
	token, err := auth.IssueToken(cfg, &models.User{ID: "user-1", Scopes: models.StringList{}})
	require.NoError(t, err)
	router := adminRouter(cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed?token="+token, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
