package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/enums"
)

// Order is a paid purchase with frozen line snapshots.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'paid'"`
	Total      int64             `gorm:"column:total;not null"`
	DeliveryID *uuid.UUID        `gorm:"column:delivery_id;type:uuid"`
	Delivery   *Delivery         `gorm:"foreignKey:DeliveryID"`
	Lines      []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
