package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/http/controller"
	middlewares "github.com/tnqbao/gau-video-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/stream")
	{
		uploadRoutes := apiRoutes.Group("/upload")
		{
			uploadRoutes.Use(middles.AuthMiddleware)
			uploadRoutes.POST("/video", ctrl.CreateVideoUpload)
			uploadRoutes.GET("/video/:id", ctrl.GetUploadStatus)
			uploadRoutes.DELETE("/video/:id", ctrl.CancelUpload)
		}

		webhookRoutes := apiRoutes.Group("/webhooks")
		{
			webhookRoutes.POST("/video", middles.WebhookAuthMiddleware, ctrl.HandleMuxWebhook)
		}

		videoRoutes := apiRoutes.Group("/videos")
		{
			videoRoutes.GET("/", middles.OptionalAuth, ctrl.ListVideos)
			videoRoutes.GET("/:id", middles.OptionalAuth, ctrl.GetVideoByID)
			videoRoutes.GET("/related/:id", middles.OptionalAuth, ctrl.GetRelatedVideos)
			videoRoutes.GET("/slug/:slug", middles.OptionalAuth, ctrl.GetVideoBySlug)

			videoRoutes.POST("/", middles.AuthMiddleware, middles.RequireAdmin, ctrl.CreateVideo)
			videoRoutes.PUT("/:id", middles.AuthMiddleware, middles.RequireAdmin, ctrl.UpdateVideo)
			videoRoutes.DELETE("/:id", middles.AuthMiddleware, middles.RequireAdmin, ctrl.DeleteVideo)
		}

		categoryRoutes := apiRoutes.Group("/categories")
		{
			categoryRoutes.GET("/", ctrl.ListCategories)
			categoryRoutes.POST("/", middles.AuthMiddleware, middles.RequireAdmin, ctrl.CreateCategory)
		}

		seriesRoutes := apiRoutes.Group("/series")
		{
			seriesRoutes.GET("/", ctrl.ListSeries)
			seriesRoutes.GET("/:id", ctrl.GetSeriesByID)
			seriesRoutes.POST("/", middles.AuthMiddleware, middles.RequireAdmin, ctrl.CreateSeries)
		}
	}
	return r
}
