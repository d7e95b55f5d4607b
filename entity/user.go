package entity

import (
	"time"

	"github.com/google/uuid"
)

// User carries authorship and notification data only. Credentials and
// session state live in the account service.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Image     string    `json:"image" gorm:"type:varchar(1024)"`
	Role      string    `json:"role" gorm:"type:varchar(32);not null;default:'user'"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
