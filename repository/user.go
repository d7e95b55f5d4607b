package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns (nil, nil) when the user does not exist locally.
func (r *UserRepository) FindByID(id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Upsert(user *entity.User) error {
	return r.db.Save(user).Error
}
