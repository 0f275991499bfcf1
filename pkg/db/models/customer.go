package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the storefront profile attached to a User.
type Customer struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Phone     *string    `gorm:"column:phone"`
	Address   *string    `gorm:"column:address"`
	CityID    *uuid.UUID `gorm:"column:city_id;type:uuid"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	City      *City      `gorm:"foreignKey:CityID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
