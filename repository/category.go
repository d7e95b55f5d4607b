package repository

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *entity.Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) FindByID(id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll() ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.Order("type ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Category{}, "id = ?", id).Error
}
