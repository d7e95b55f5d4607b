package controller

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/finalizer"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
	"github.com/tnqbao/gau-video-service/infra/produce"
	"github.com/tnqbao/gau-video-service/repository"
	"github.com/tnqbao/gau-video-service/utils"
	"gorm.io/gorm"
)

// CreateVideo finalizes a processed asset into a catalog entry. It shares
// the finalizer with the webhook flow, so whichever path runs first wins
// and the other gets the same row back.
func (ctrl *Controller) CreateVideo(c *gin.Context) {
	ctx := c.Request.Context()
	userIDStr := c.GetString("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Invalid user_id format: %v", err)
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	var req dto.CreateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.JSON400(c, "Invalid request: "+err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		utils.JSON400(c, "Invalid categoryId format")
		return
	}
	if _, err := ctrl.Repository.CategoryRepo.FindByID(categoryID); err != nil {
		utils.JSON404(c, "Category not found")
		return
	}

	// Stage the cover first so the finalized row never points at a missing
	// object.
	stagedKey := ""
	if coverFile, err := c.FormFile("cover"); err == nil {
		stagedKey, err = ctrl.stageCover(c, coverFile)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to stage cover")
			utils.JSON500(c, "Failed to store cover image")
			return
		}
	}

	video, created, err := ctrl.Finalizer.Finalize(ctx, finalizer.FinalizeInput{
		MuxAssetID:  req.MuxAssetID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  categoryID,
		Type:        entity.VideoType(req.Type),
		SeriesID:    req.SeriesID,
		IsPromoted:  req.IsPromoted,
		AuthorID:    userID,
	})
	if err != nil {
		ctrl.discardStagedCover(c, stagedKey)
		if errors.Is(err, finalizer.ErrStillProcessing) || errors.Is(err, finalizer.ErrNoPlayback) {
			utils.JSON400(c, "Asset is not ready for playback yet")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to finalize asset %s", req.MuxAssetID)
		utils.JSON500(c, "Failed to create video")
		return
	}

	if !created {
		ctrl.discardStagedCover(c, stagedKey)
		utils.JSON200(c, video)
		return
	}

	if stagedKey != "" {
		ctrl.attachCover(c, video, stagedKey)
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Video] Created video %s (slug %s) from asset %s", video.ID, video.Slug, req.MuxAssetID)
	ctrl.notifyAuthor(c, video)
	utils.JSON201(c, video)
}

func (ctrl *Controller) stageCover(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("staging/%s%s", uuid.New(), ext)
	if err := ctrl.Infra.Storage.PutObject(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// attachCover moves the staged object to its permanent key and records the
// public URL. A move failure leaves the video without a cover but intact.
func (ctrl *Controller) attachCover(c *gin.Context, video *entity.Video, stagedKey string) {
	ctx := c.Request.Context()

	finalKey := fmt.Sprintf("videoCovers/%s%s", video.ID, filepath.Ext(stagedKey))
	if err := ctrl.Infra.Storage.MoveObject(ctx, stagedKey, finalKey); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to move cover for video %s", video.ID)
		return
	}

	video.CoverURL = ctrl.Infra.Storage.PublicURL(finalKey)
	if err := ctrl.Repository.VideoRepo.Update(video); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to record cover URL for video %s", video.ID)
	}
}

func (ctrl *Controller) discardStagedCover(c *gin.Context, stagedKey string) {
	if stagedKey == "" {
		return
	}
	ctx := c.Request.Context()
	if err := ctrl.Infra.Storage.RemoveObject(ctx, stagedKey); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Video] Failed to remove staged cover %s: %v", stagedKey, err)
	}
}

func (ctrl *Controller) ListVideos(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListVideosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSON400(c, "Invalid query: "+err.Error())
		return
	}

	filter := repository.VideoFilter{
		SeriesID: query.SeriesID,
		Type:     entity.VideoType(query.Type),
		Promoted: query.Promoted,
		Search:   query.Search,
	}
	if query.CategoryID != "" {
		categoryID, err := uuid.Parse(query.CategoryID)
		if err != nil {
			utils.JSON400(c, "Invalid categoryId format")
			return
		}
		filter.CategoryID = &categoryID
	}

	perPage := query.PerPage
	if perPage == 0 {
		perPage = 20
	}
	page := query.Page
	if page == 0 {
		page = 1
	}
	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage

	videos, total, err := ctrl.Repository.VideoRepo.List(filter)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to list videos")
		utils.JSON500(c, "Failed to list videos")
		return
	}

	utils.JSON200(c, gin.H{
		"videos":  videos,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

func (ctrl *Controller) GetVideoByID(c *gin.Context) {
	ctx := c.Request.Context()

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid video id format")
		return
	}

	video, err := ctrl.Repository.VideoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Video not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch video %s", videoID)
		utils.JSON500(c, "Failed to fetch video")
		return
	}

	if !ctrl.canWatch(c, video) {
		utils.JSON403(c, "Premium account required")
		return
	}

	if err := ctrl.Repository.VideoRepo.IncrementViews(video.ID); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Video] Failed to count view for %s: %v", video.ID, err)
	}

	utils.JSON200(c, video)
}

func (ctrl *Controller) GetVideoBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	slug := c.Param("slug")
	video, err := ctrl.Repository.VideoRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Video not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch video by slug %s", slug)
		utils.JSON500(c, "Failed to fetch video")
		return
	}

	if !ctrl.canWatch(c, video) {
		utils.JSON403(c, "Premium account required")
		return
	}

	if err := ctrl.Repository.VideoRepo.IncrementViews(video.ID); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Video] Failed to count view for %s: %v", video.ID, err)
	}

	utils.JSON200(c, video)
}

func (ctrl *Controller) GetRelatedVideos(c *gin.Context) {
	ctx := c.Request.Context()

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid video id format")
		return
	}

	video, err := ctrl.Repository.VideoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Video not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch video %s", videoID)
		utils.JSON500(c, "Failed to fetch video")
		return
	}

	related, err := ctrl.Repository.VideoRepo.FindRelated(video, 10)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch related videos for %s", videoID)
		utils.JSON500(c, "Failed to fetch related videos")
		return
	}

	utils.JSON200(c, gin.H{"videos": related})
}

func (ctrl *Controller) UpdateVideo(c *gin.Context) {
	ctx := c.Request.Context()

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid video id format")
		return
	}

	var req dto.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.JSON400(c, "Invalid request: "+err.Error())
		return
	}

	video, err := ctrl.Repository.VideoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Video not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch video %s", videoID)
		utils.JSON500(c, "Failed to fetch video")
		return
	}

	if req.Title != nil && *req.Title != video.Title {
		video.Title = *req.Title
		base := utils.GenerateSlug(video.Title)
		existing, err := ctrl.Repository.VideoRepo.SlugsLike(base)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to look up slugs for %s", videoID)
			utils.JSON500(c, "Failed to update video")
			return
		}
		// The row's own slug must not block its new title.
		others := existing[:0]
		for _, s := range existing {
			if s != video.Slug {
				others = append(others, s)
			}
		}
		video.Slug = utils.EnsureUniqueSlug(base, others)
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			utils.JSON400(c, "Invalid categoryId format")
			return
		}
		if _, err := ctrl.Repository.CategoryRepo.FindByID(categoryID); err != nil {
			utils.JSON404(c, "Category not found")
			return
		}
		video.CategoryID = categoryID
	}
	if req.Type != nil {
		video.Type = entity.VideoType(*req.Type)
	}
	if req.SeriesID != nil {
		video.SeriesID = req.SeriesID
	}
	if req.IsPromoted != nil {
		video.IsPromoted = *req.IsPromoted
	}

	if coverFile, err := c.FormFile("cover"); err == nil {
		stagedKey, err := ctrl.stageCover(c, coverFile)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to stage replacement cover")
			utils.JSON500(c, "Failed to store cover image")
			return
		}
		oldCover := video.CoverURL
		ctrl.attachCover(c, video, stagedKey)
		if oldCover != "" && video.CoverURL != oldCover {
			if key := ctrl.Infra.Storage.KeyFromURL(oldCover); key != "" {
				if err := ctrl.Infra.Storage.RemoveObject(ctx, key); err != nil {
					ctrl.Infra.Logger.WarningWithContextf(ctx, "[Video] Failed to remove old cover %s: %v", key, err)
				}
			}
		}
	}

	if err := ctrl.Repository.VideoRepo.Update(video); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to update video %s", videoID)
		utils.JSON500(c, "Failed to update video")
		return
	}

	utils.JSON200(c, video)
}

// DeleteVideo removes the catalog row immediately and queues remote cleanup
// of the processing asset and cover object for the consumer.
func (ctrl *Controller) DeleteVideo(c *gin.Context) {
	ctx := c.Request.Context()
	userIDStr := c.GetString("user_id")

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid video id format")
		return
	}

	video, err := ctrl.Repository.VideoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Video not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to fetch video %s", videoID)
		utils.JSON500(c, "Failed to fetch video")
		return
	}

	if err := ctrl.Repository.VideoRepo.Delete(video.ID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to delete video %s", videoID)
		utils.JSON500(c, "Failed to delete video")
		return
	}

	err = ctrl.Infra.Produce.CleanupService.PublishVideoCleanup(ctx, produce.VideoCleanupMessage{
		VideoID:    video.ID.String(),
		MuxAssetID: video.MuxAssetID,
		CoverURL:   video.CoverURL,
		UserID:     userIDStr,
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Video] Failed to queue cleanup for video %s", videoID)
	}

	utils.JSON200(c, gin.H{"deleted": true, "id": video.ID})
}

// canWatch gates premium videos on the caller's permission claim.
func (ctrl *Controller) canWatch(c *gin.Context, video *entity.Video) bool {
	if video.Type != entity.VideoTypePremium {
		return true
	}
	permission := c.GetString("permission")
	return permission == "premium" || permission == "admin"
}
