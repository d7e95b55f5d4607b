package controller

import (
	"context"

	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/finalizer"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
)

// VideoFinalizer is the single creation pipeline shared by the admin
// creation endpoint and the webhook dispatcher.
type VideoFinalizer interface {
	Finalize(ctx context.Context, input finalizer.FinalizeInput) (*entity.Video, bool, error)
	AutoCreate(ctx context.Context, assetID, rawPassthrough string) (*entity.Video, bool, error)
}

// WebhookAuditor records delivered webhook events.
type WebhookAuditor interface {
	Create(event *entity.WebhookEvent) error
}

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Finalizer  VideoFinalizer
	Audits     WebhookAuditor
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Finalizer:  finalizer.NewFinalizer(repo.VideoRepo, infra.Mux, infra.Logger),
		Audits:     repo.WebhookEventRepo,
	}
}
