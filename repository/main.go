package repository

import (
	"github.com/tnqbao/gau-video-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	VideoRepo        *VideoRepository
	CategoryRepo     *CategoryRepository
	SeriesRepo       *SeriesRepository
	UserRepo         *UserRepository
	WebhookEventRepo *WebhookEventRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		VideoRepo:        NewVideoRepository(infra.Postgres.DB),
		CategoryRepo:     NewCategoryRepository(infra.Postgres.DB),
		SeriesRepo:       NewSeriesRepository(infra.Postgres.DB),
		UserRepo:         NewUserRepository(infra.Postgres.DB),
		WebhookEventRepo: NewWebhookEventRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) BeginTransaction(db *gorm.DB) *gorm.DB {
	return db.Begin()
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		VideoRepo:        NewVideoRepository(tx),
		CategoryRepo:     NewCategoryRepository(tx),
		SeriesRepo:       NewSeriesRepository(tx),
		UserRepo:         NewUserRepository(tx),
		WebhookEventRepo: NewWebhookEventRepository(tx),
	}
}
