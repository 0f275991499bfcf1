package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine is a frozen copy of a cart line at purchase time. Name, slug,
// price, and photo are snapshots; later product edits never touch them.
type OrderLine struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName string     `gorm:"column:product_name;not null"`
	ProductSlug string     `gorm:"column:product_slug;not null"`
	UnitPrice   int64      `gorm:"column:unit_price;not null"`
	Photo       *string    `gorm:"column:photo"`
	Quantity    int        `gorm:"column:quantity;not null"`
	Total       int64      `gorm:"column:total;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
