package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/utils"
	"gorm.io/datatypes"
)

// webhookEnvelope is the provider's event wrapper. For asset events data.id
// is the asset id; for upload events data.id is the upload id and asset_id
// points at the created asset.
type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		ID          string          `json:"id"`
		AssetID     string          `json:"asset_id"`
		UploadID    string          `json:"upload_id"`
		Passthrough string          `json:"passthrough"`
		Errors      *infra.MuxError `json:"errors,omitempty"`
	} `json:"data"`
}

// HandleMuxWebhook processes signed webhook deliveries. The signature was
// already verified by middleware. Every recognized event is acknowledged
// with 200 even when downstream processing fails, because the provider
// retries non-2xx responses and a retry would hit the same failure.
func (ctrl *Controller) HandleMuxWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	rawValue, exists := c.Get("webhook_raw_body")
	if !exists {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Webhook] Raw body missing from context")
		utils.JSON500(c, "Webhook processing failed")
		return
	}
	body := rawValue.([]byte)

	var event webhookEnvelope
	if err := json.Unmarshal(body, &event); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Webhook] Unparseable payload")
		utils.JSON500(c, "Webhook processing failed")
		return
	}

	ctrl.auditEvent(c, &event, body)

	switch event.Type {
	case "video.asset.ready":
		ctrl.handleAssetReady(c, &event)
	case "video.asset.errored":
		errDetail := ""
		if event.Data.Errors != nil {
			errDetail = fmt.Sprintf("%s: %v", event.Data.Errors.Type, event.Data.Errors.Messages)
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Webhook] Asset %s errored: %s", event.Data.ID, errDetail)
	case "video.upload.asset_created":
		ctrl.Infra.Logger.InfoWithContextf(ctx, "[Webhook] Upload %s created asset %s", event.Data.ID, event.Data.AssetID)
	case "video.upload.cancelled":
		ctrl.Infra.Logger.InfoWithContextf(ctx, "[Webhook] Upload %s cancelled", event.Data.ID)
	case "video.upload.errored":
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Webhook] Upload %s errored", event.Data.ID)
	default:
		ctrl.Infra.Logger.InfoWithContextf(ctx, "[Webhook] Ignoring event type %s", event.Type)
	}

	utils.JSON200(c, gin.H{"received": true})
}

func (ctrl *Controller) auditEvent(c *gin.Context, event *webhookEnvelope, body []byte) {
	ctx := c.Request.Context()

	assetID := event.Data.AssetID
	uploadID := event.Data.UploadID
	switch event.Type {
	case "video.asset.ready", "video.asset.errored":
		assetID = event.Data.ID
	}

	record := &entity.WebhookEvent{
		ID:       uuid.New(),
		Type:     event.Type,
		UploadID: uploadID,
		AssetID:  assetID,
		Payload:  datatypes.JSON(body),
	}
	if err := ctrl.Audits.Create(record); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Webhook] Failed to audit %s event: %v", event.Type, err)
	}
}

func (ctrl *Controller) handleAssetReady(c *gin.Context, event *webhookEnvelope) {
	ctx := c.Request.Context()
	assetID := event.Data.ID

	video, created, err := ctrl.Finalizer.AutoCreate(ctx, assetID, event.Data.Passthrough)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Webhook] Auto create failed for asset %s", assetID)
		return
	}
	if video == nil {
		return
	}
	if !created {
		ctrl.Infra.Logger.InfoWithContextf(ctx, "[Webhook] Asset %s already finalized as video %s", assetID, video.ID)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Webhook] Created video %s (slug %s) from asset %s", video.ID, video.Slug, assetID)
	ctrl.notifyAuthor(c, video)
}

// notifyAuthor queues a "video published" mail for the uploader. Failures
// only cost the notification, never the video row.
func (ctrl *Controller) notifyAuthor(c *gin.Context, video *entity.Video) {
	ctx := c.Request.Context()

	author, err := ctrl.Repository.UserRepo.FindByID(video.AuthorID)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Webhook] Failed to look up author %s: %v", video.AuthorID, err)
		return
	}
	if author == nil || author.Email == "" {
		return
	}

	watchURL := fmt.Sprintf("%s/watch/%s", ctrl.Config.EnvConfig.FrontendURL, video.Slug)
	err = ctrl.Infra.Produce.EmailService.SendVideoPublishedNotification(ctx, author.Email, author.Name, video.Title, watchURL)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Webhook] Failed to queue publish notification for video %s: %v", video.ID, err)
	}
}
