package models

import (
	"time"

	"github.com/google/uuid"
)

// Region is a top-level delivery territory.
type Region struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Cities    []City    `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
