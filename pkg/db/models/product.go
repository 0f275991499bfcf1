package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable furniture variant.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ModelID     uuid.UUID      `gorm:"column:model_id;type:uuid;not null"`
	Name        string         `gorm:"column:name;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	Description *string        `gorm:"column:description"`
	Price       int64          `gorm:"column:price;not null"`
	Discount    int            `gorm:"column:discount;not null;default:0"`
	Stock       int            `gorm:"column:stock;not null;default:0"`
	Color       *string        `gorm:"column:color"`
	Size        *string        `gorm:"column:size"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	Model       *ProductModel  `gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice applies the percentage discount and floors the result to a
// whole currency unit.
func (p Product) EffectivePrice() int64 {
	if p.Discount <= 0 {
		return p.Price
	}
	price := decimal.NewFromInt(p.Price)
	cut := price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(decimal.NewFromInt(100)).Floor()
	return price.Sub(cut).IntPart()
}

// OnSale reports whether the product carries a non-zero discount.
func (p Product) OnSale() bool {
	return p.Discount > 0
}

// PrimaryPhoto returns the first image URL when one exists.
func (p Product) PrimaryPhoto() *string {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0].URL
}
