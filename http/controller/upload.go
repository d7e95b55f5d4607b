package controller

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/utils"
)

const uploadStatusCacheTTL = 3 * time.Second

// CreateVideoUpload validates the declared metadata and mints a direct
// upload URL. No database row is written here. The metadata rides along as
// passthrough and the webhook flow materializes the video once the asset
// is ready.
func (ctrl *Controller) CreateVideoUpload(c *gin.Context) {
	ctx := c.Request.Context()
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Upload] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Invalid user_id format: %v", err)
		utils.JSON400(c, "Invalid user_id format")
		return
	}

	var req dto.CreateVideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request: "+err.Error())
		return
	}
	if req.Type == "" {
		req.Type = string(entity.VideoTypeFree)
	}

	passthrough, err := entity.UploadPassthrough{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		SeriesID:    req.SeriesID,
		IsPromoted:  req.IsPromoted,
	}.Encode()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to encode passthrough")
		utils.JSON500(c, "Failed to prepare upload")
		return
	}

	upload, err := ctrl.Infra.Mux.CreateDirectUpload(ctx, ctrl.Config.EnvConfig.FrontendURL, passthrough)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to create direct upload")
		utils.JSON500(c, "Failed to create upload")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Created direct upload %s for user %s", upload.ID, userID)

	utils.JSON201(c, dto.CreateVideoUploadResponse{
		UploadURL: upload.URL,
		UploadID:  upload.ID,
		Metadata:  req,
	})
}

// GetUploadStatus reports ingestion progress. Responses are cached briefly
// so an aggressive poller does not hammer the provider API.
func (ctrl *Controller) GetUploadStatus(c *gin.Context) {
	ctx := c.Request.Context()
	uploadID := c.Param("id")
	if uploadID == "" {
		utils.JSON400(c, "upload id is required")
		return
	}

	cacheKey := fmt.Sprintf("upload_status:%s", uploadID)
	var cached dto.UploadStatusResponse
	if err := ctrl.Infra.Redis.Get(ctx, cacheKey, &cached); err == nil {
		utils.JSON200(c, cached)
		return
	} else if err != infra.ErrCacheMiss {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Status cache read failed for %s: %v", uploadID, err)
	}

	upload, err := ctrl.Infra.Mux.GetUpload(ctx, uploadID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to fetch upload %s", uploadID)
		utils.JSON404(c, "Upload not found")
		return
	}

	resp := dto.UploadStatusResponse{
		UploadStatus: upload.Status,
		UploadID:     upload.ID,
		AssetID:      upload.AssetID,
	}
	if upload.Error != nil {
		resp.Error = upload.Error.Type
	}

	// Once the provider has created an asset, the asset's own status is the
	// one that matters to the client.
	if upload.Status == "asset_created" && upload.AssetID != "" {
		asset, err := ctrl.Infra.Mux.GetAsset(ctx, upload.AssetID)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to fetch asset %s", upload.AssetID)
			utils.JSON500(c, "Failed to fetch asset status")
			return
		}
		resp.UploadStatus = asset.Status
		resp.PlaybackID = asset.FirstPlaybackID()
		if asset.Errors != nil {
			resp.Error = asset.Errors.Type
		}
	}

	if err := ctrl.Infra.Redis.Set(ctx, cacheKey, resp, uploadStatusCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Status cache write failed for %s: %v", uploadID, err)
	}

	utils.JSON200(c, resp)
}

// CancelUpload voids a direct upload slot that has not been used yet.
func (ctrl *Controller) CancelUpload(c *gin.Context) {
	ctx := c.Request.Context()
	uploadID := c.Param("id")
	if uploadID == "" {
		utils.JSON400(c, "upload id is required")
		return
	}

	if err := ctrl.Infra.Mux.CancelUpload(ctx, uploadID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to cancel upload %s", uploadID)
		utils.JSON500(c, "Failed to cancel upload")
		return
	}

	ctrl.Infra.Redis.Delete(ctx, fmt.Sprintf("upload_status:%s", uploadID))
	utils.JSON200(c, gin.H{"message": "Upload cancelled", "uploadId": uploadID})
}
