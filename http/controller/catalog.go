package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
	"github.com/tnqbao/gau-video-service/utils"
	"gorm.io/gorm"
)

func (ctrl *Controller) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := ctrl.Repository.CategoryRepo.FindAll()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Catalog] Failed to list categories")
		utils.JSON500(c, "Failed to list categories")
		return
	}

	utils.JSON200(c, gin.H{"categories": categories})
}

func (ctrl *Controller) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var category entity.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.JSON400(c, "Invalid request: "+err.Error())
		return
	}
	category.ID = uuid.New()

	if err := ctrl.Repository.CategoryRepo.Create(&category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSON409(c, "Category already exists")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Catalog] Failed to create category")
		utils.JSON500(c, "Failed to create category")
		return
	}

	utils.JSON201(c, category)
}

func (ctrl *Controller) ListSeries(c *gin.Context) {
	ctx := c.Request.Context()

	series, err := ctrl.Repository.SeriesRepo.FindAll()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Catalog] Failed to list series")
		utils.JSON500(c, "Failed to list series")
		return
	}

	utils.JSON200(c, gin.H{"series": series})
}

func (ctrl *Controller) GetSeriesByID(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSON400(c, "Invalid series id format")
		return
	}

	series, err := ctrl.Repository.SeriesRepo.FindByIDWithEpisodes(seriesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Series not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Catalog] Failed to fetch series %d", seriesID)
		utils.JSON500(c, "Failed to fetch series")
		return
	}

	utils.JSON200(c, series)
}

func (ctrl *Controller) CreateSeries(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request: "+err.Error())
		return
	}

	base := utils.GenerateSlug(req.Title)
	existing, err := ctrl.Repository.SeriesRepo.SlugsLike(base)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Catalog] Failed to look up series slugs")
		utils.JSON500(c, "Failed to create series")
		return
	}

	series := entity.Series{
		Title:       req.Title,
		Slug:        utils.EnsureUniqueSlug(base, existing),
		Description: req.Description,
		CoverURL:    req.CoverURL,
	}
	if err := ctrl.Repository.SeriesRepo.Create(&series); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Catalog] Failed to create series")
		utils.JSON500(c, "Failed to create series")
		return
	}

	utils.JSON201(c, series)
}
