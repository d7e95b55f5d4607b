package entity

import (
	"time"

	"github.com/google/uuid"
)

// VideoType controls whether playback requires a paid account
type VideoType string

const (
	VideoTypeFree    VideoType = "free"
	VideoTypePremium VideoType = "premium"
)

// Video is the persisted record of a processed Mux asset.
// MuxAssetID carries a unique index: it is the idempotency anchor that keeps
// the synchronous create path and the webhook auto-create path from ever
// producing two rows for the same asset.
type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CoverURL    string    `json:"cover_url" gorm:"type:varchar(1024)"`
	CategoryID  uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	Type        VideoType `json:"type" gorm:"type:varchar(16);not null;default:'free'"`
	SeriesID    *int64    `json:"series_id,omitempty" gorm:"index"`
	IsPromoted  bool      `json:"is_promoted" gorm:"not null;default:false"`
	MuxAssetID  string    `json:"mux_asset_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	PlaybackID  string    `json:"playback_id" gorm:"type:varchar(255);not null"`
	Duration    string    `json:"duration" gorm:"type:varchar(16);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	Likes       int64     `json:"likes" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Series   *Series   `json:"series,omitempty" gorm:"foreignKey:SeriesID"`
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
