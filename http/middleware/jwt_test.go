package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/utils"
)

func jwtTestConfig(secret string) *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = secret
	cfg.JWT.Expire = 3600
	return cfg
}

func authTestRouter(cfg *config.EnvConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetString("user_id"),
			"permission": c.GetString("permission"),
		})
	})
	r.GET("/admin", AuthMiddleware(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := jwtTestConfig("test-secret")
	r := authTestRouter(cfg)

	userID := uuid.New()
	token, err := utils.GenerateToken(userID, "member", cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"permission":"member"`)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := authTestRouter(jwtTestConfig("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	r := authTestRouter(jwtTestConfig("test-secret"))

	token, err := utils.GenerateToken(uuid.New(), "member", jwtTestConfig("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := jwtTestConfig("test-secret")
	cfg.JWT.Expire = -60
	r := authTestRouter(cfg)

	token, err := utils.GenerateToken(uuid.New(), "member", cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	cfg := jwtTestConfig("test-secret")
	r := authTestRouter(cfg)

	adminToken, err := utils.GenerateToken(uuid.New(), "admin", cfg)
	require.NoError(t, err)
	memberToken, err := utils.GenerateToken(uuid.New(), "member", cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareQueryTokenFallback(t *testing.T) {
	cfg := jwtTestConfig("test-secret")
	r := authTestRouter(cfg)

	token, err := utils.GenerateToken(uuid.New(), "member", cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me?access_token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
