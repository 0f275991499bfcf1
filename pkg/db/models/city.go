package models

import (
	"time"

	"github.com/google/uuid"
)

// City belongs to a Region and anchors delivery pricing.
type City struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RegionID  uuid.UUID `gorm:"column:region_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
