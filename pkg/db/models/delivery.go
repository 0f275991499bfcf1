package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery captures the shipping details attached to an order.
type Delivery struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CityID    *uuid.UUID `gorm:"column:city_id;type:uuid"`
	Address   string     `gorm:"column:address;not null"`
	Phone     string     `gorm:"column:phone;not null"`
	Comment   *string    `gorm:"column:comment"`
	City      *City      `gorm:"foreignKey:CityID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
