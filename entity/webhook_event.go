package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WebhookEvent is an audit row for every delivery that passed signature
// verification. Mux delivers at-least-once, so the same (type, asset) pair
// can legitimately appear more than once here.
type WebhookEvent struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Type       string         `json:"type" gorm:"type:varchar(64);not null;index"`
	UploadID   string         `json:"upload_id" gorm:"type:varchar(255)"`
	AssetID    string         `json:"asset_id" gorm:"type:varchar(255);index"`
	Payload    datatypes.JSON `json:"payload"`
	ReceivedAt time.Time      `json:"received_at" gorm:"not null;autoCreateTime"`
}
