package repository

import (
	"github.com/tnqbao/gau-video-service/entity"
	"gorm.io/gorm"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Create(event *entity.WebhookEvent) error {
	return r.db.Create(event).Error
}

func (r *WebhookEventRepository) FindByAssetID(assetID string) ([]entity.WebhookEvent, error) {
	var events []entity.WebhookEvent
	err := r.db.Where("asset_id = ?", assetID).Order("received_at ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
