package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// VideoFilter narrows List results. Zero values mean "no constraint".
type VideoFilter struct {
	CategoryID *uuid.UUID
	SeriesID   *int64
	Type       entity.VideoType
	Promoted   *bool
	Search     string
	Limit      int
	Offset     int
}

func (r *VideoRepository) Create(video *entity.Video) error {
	return r.db.Create(video).Error
}

func (r *VideoRepository) FindByID(id uuid.UUID) (*entity.Video, error) {
	var video entity.Video
	err := r.db.Preload("Category").Preload("Series").Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) FindBySlug(slug string) (*entity.Video, error) {
	var video entity.Video
	err := r.db.Preload("Category").Preload("Series").Where("slug = ?", slug).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// FindByMuxAssetID returns (nil, nil) when no row exists so callers can
// distinguish "not finalized yet" from a real database failure.
func (r *VideoRepository) FindByMuxAssetID(muxAssetID string) (*entity.Video, error) {
	var video entity.Video
	err := r.db.Where("mux_asset_id = ?", muxAssetID).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// SlugsLike returns every slug starting with the given base, used to pick
// the smallest free numeric suffix for a new video.
func (r *VideoRepository) SlugsLike(base string) ([]string, error) {
	var slugs []string
	err := r.db.Model(&entity.Video{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &slugs).Error
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

func (r *VideoRepository) List(filter VideoFilter) ([]entity.Video, int64, error) {
	query := r.db.Model(&entity.Video{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SeriesID != nil {
		query = query.Where("series_id = ?", *filter.SeriesID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Promoted != nil {
		query = query.Where("is_promoted = ?", *filter.Promoted)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var videos []entity.Video
	err := query.Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// FindRelated returns other videos from the same category, newest first.
func (r *VideoRepository) FindRelated(video *entity.Video, limit int) ([]entity.Video, error) {
	if limit <= 0 {
		limit = 10
	}
	var videos []entity.Video
	err := r.db.Where("category_id = ? AND id != ?", video.CategoryID, video.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoRepository) Update(video *entity.Video) error {
	return r.db.Save(video).Error
}

func (r *VideoRepository) IncrementViews(id uuid.UUID) error {
	return r.db.Model(&entity.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *VideoRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Video{}, "id = ?", id).Error
}
