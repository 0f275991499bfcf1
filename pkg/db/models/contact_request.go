package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactRequest stores a callback request submitted from the storefront.
type ContactRequest struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Phone     string    `gorm:"column:phone;not null"`
	Message   *string   `gorm:"column:message"`
	Processed bool      `gorm:"column:processed;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
