package catalog

import (
	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
)

// CategoryDTO is the storefront view of a category.
type CategoryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Photo *string   `json:"photo,omitempty"`
}

// ProductSummaryDTO is the listing card representation.
type ProductSummaryDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Price          int64     `json:"price"`
	Discount       int       `json:"discount"`
	EffectivePrice int64     `json:"effective_price"`
	OnSale         bool      `json:"on_sale"`
	InStock        bool      `json:"in_stock"`
	Photo          *string   `json:"photo,omitempty"`
}

// ProductDetailDTO carries the full product page payload, including sibling
// variants of the same model line.
type ProductDetailDTO struct {
	ProductSummaryDTO
	Description *string             `json:"description,omitempty"`
	Color       *string             `json:"color,omitempty"`
	Size        *string             `json:"size,omitempty"`
	Stock       int                 `json:"stock"`
	Images      []string            `json:"images"`
	Category    *CategoryDTO        `json:"category,omitempty"`
	Variants    []ProductSummaryDTO `json:"variants"`
}

// ProductPageDTO wraps a product listing with its pagination cursor.
type ProductPageDTO struct {
	Products   []ProductSummaryDTO `json:"products"`
	NextCursor *string             `json:"next_cursor,omitempty"`
}

func toCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:    category.ID,
		Name:  category.Name,
		Slug:  category.Slug,
		Photo: category.Photo,
	}
}

func toProductSummaryDTO(product models.Product) ProductSummaryDTO {
	return ProductSummaryDTO{
		ID:             product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		Price:          product.Price,
		Discount:       product.Discount,
		EffectivePrice: product.EffectivePrice(),
		OnSale:         product.OnSale(),
		InStock:        product.Stock > 0,
		Photo:          product.PrimaryPhoto(),
	}
}

func toProductDetailDTO(product models.Product, category *models.Category, variants []models.Product) ProductDetailDTO {
	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.URL)
	}

	siblings := make([]ProductSummaryDTO, 0, len(variants))
	for _, variant := range variants {
		if variant.ID == product.ID {
			continue
		}
		siblings = append(siblings, toProductSummaryDTO(variant))
	}

	detail := ProductDetailDTO{
		ProductSummaryDTO: toProductSummaryDTO(product),
		Description:       product.Description,
		Color:             product.Color,
		Size:              product.Size,
		Stock:             product.Stock,
		Images:            images,
		Variants:          siblings,
	}
	if category != nil {
		dto := toCategoryDTO(*category)
		detail.Category = &dto
	}
	return detail
}
