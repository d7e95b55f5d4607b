package repository

import (
	"github.com/tnqbao/gau-video-service/entity"
	"gorm.io/gorm"
)

type SeriesRepository struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

func (r *SeriesRepository) Create(series *entity.Series) error {
	return r.db.Create(series).Error
}

func (r *SeriesRepository) FindByID(id int64) (*entity.Series, error) {
	var series entity.Series
	err := r.db.Where("id = ?", id).First(&series).Error
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// FindByIDWithEpisodes loads a series with its videos ordered oldest first.
func (r *SeriesRepository) FindByIDWithEpisodes(id int64) (*entity.Series, error) {
	var series entity.Series
	err := r.db.Preload("Episodes", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&series).Error
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *SeriesRepository) FindAll() ([]entity.Series, error) {
	var series []entity.Series
	err := r.db.Order("created_at DESC").Find(&series).Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (r *SeriesRepository) SlugsLike(base string) ([]string, error) {
	var slugs []string
	err := r.db.Model(&entity.Series{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &slugs).Error
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

func (r *SeriesRepository) Delete(id int64) error {
	return r.db.Delete(&entity.Series{}, "id = ?", id).Error
}
