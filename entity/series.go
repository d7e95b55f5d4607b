package entity

import "time"

type Series struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CoverURL    string    `json:"cover_url" gorm:"type:varchar(1024)"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime"`

	Episodes []Video `json:"episodes,omitempty" gorm:"foreignKey:SeriesID"`
}
