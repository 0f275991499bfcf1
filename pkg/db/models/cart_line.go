package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine holds one product and its quantity inside a Cart. Total is kept
// denormalized as quantity times the product's effective price at mutation time.
type CartLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	Total     int64     `gorm:"column:total;not null;default:0"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
