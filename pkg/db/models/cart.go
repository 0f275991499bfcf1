package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the customer's single persistent basket.
type Cart struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	Lines      []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalPrice sums line totals across the basket.
func (c Cart) TotalPrice() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Total
	}
	return total
}

// TotalQuantity sums line quantities across the basket.
func (c Cart) TotalQuantity() int {
	var qty int
	for _, line := range c.Lines {
		qty += line.Quantity
	}
	return qty
}
