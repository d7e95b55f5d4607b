package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tnqbao/gau-video-service/utils"
)

func webhookTestRouter(secret string, handled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", WebhookAuthMiddleware(secret), func(c *gin.Context) {
		*handled = true
		body, exists := c.Get(RawBodyKey)
		if !exists {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "application/json", body.([]byte))
	})
	return r
}

func TestWebhookAuthValidSignature(t *testing.T) {
	handled := false
	r := webhookTestRouter("whsec", &handled)

	body := []byte(`{"type":"video.asset.ready","data":{"id":"asset-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Mux-Signature", utils.ComputeHMACSHA256("whsec", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handled)
	assert.Equal(t, string(body), w.Body.String())
}

func TestWebhookAuthTamperedBody(t *testing.T) {
	handled := false
	r := webhookTestRouter("whsec", &handled)

	body := []byte(`{"type":"video.asset.ready","data":{"id":"asset-1"}}`)
	sig := utils.ComputeHMACSHA256("whsec", body)

	tampered := []byte(`{"type":"video.asset.ready","data":{"id":"asset-2"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(tampered))
	req.Header.Set("Mux-Signature", sig)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handled, "handler must not run for a tampered payload")
}

func TestWebhookAuthMissingSignature(t *testing.T) {
	handled := false
	r := webhookTestRouter("whsec", &handled)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handled)
}

func TestWebhookAuthEmptySecret(t *testing.T) {
	handled := false
	r := webhookTestRouter("", &handled)

	body := []byte(`{"type":"video.asset.ready","data":{"id":"asset-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Mux-Signature", utils.ComputeHMACSHA256("", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handled, "empty-key signatures must never be accepted")
}

func TestWebhookAuthWrongSecret(t *testing.T) {
	handled := false
	r := webhookTestRouter("whsec", &handled)

	body := []byte(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Mux-Signature", utils.ComputeHMACSHA256("other-secret", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handled)
}
