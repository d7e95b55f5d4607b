package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware        gin.HandlerFunc
	AuthMiddleware        gin.HandlerFunc
	OptionalAuth          gin.HandlerFunc
	RequireAdmin          gin.HandlerFunc
	WebhookAuthMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	auth := AuthMiddleware(ctrl.Config.EnvConfig)
	optionalAuth := OptionalAuthMiddleware(ctrl.Config.EnvConfig)
	requireAdmin := RequireAdmin()
	webhookAuth := WebhookAuthMiddleware(ctrl.Config.EnvConfig.Mux.WebhookSecret)

	return &Middlewares{
		CORSMiddleware:        cors,
		AuthMiddleware:        auth,
		OptionalAuth:          optionalAuth,
		RequireAdmin:          requireAdmin,
		WebhookAuthMiddleware: webhookAuth,
	}, nil
}
