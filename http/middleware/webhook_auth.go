package middlewares

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/utils"
)

// RawBodyKey is where the verified webhook body is stored for the handler.
const RawBodyKey = "webhook_raw_body"

// WebhookAuthMiddleware verifies the HMAC-SHA256 signature of the raw request
// body against the Mux-Signature header. Verification runs before any JSON
// parsing and rejects with 401 so unverified payloads never reach the handler.
// An unconfigured secret rejects every delivery rather than degrading to an
// empty-key HMAC.
func WebhookAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Webhook secret not configured"})
			c.Abort()
			return
		}

		signature := c.GetHeader("Mux-Signature")
		if signature == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing webhook signature"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unreadable request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		expected := utils.ComputeHMACSHA256(secret, body)
		if !utils.SecureCompare(expected, signature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			c.Abort()
			return
		}

		c.Set(RawBodyKey, body)
		c.Next()
	}
}
