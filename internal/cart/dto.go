package cart

import (
	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
)

// LineDTO is one basket line in API responses.
type LineDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductSlug    string    `json:"product_slug"`
	EffectivePrice int64     `json:"effective_price"`
	Quantity       int       `json:"quantity"`
	Total          int64     `json:"total"`
	Photo          *string   `json:"photo,omitempty"`
}

// CartDTO is the basket payload with aggregate totals.
type CartDTO struct {
	Lines         []LineDTO `json:"lines"`
	TotalQuantity int       `json:"total_quantity"`
	TotalPrice    int64     `json:"total_price"`
}

func toLineDTO(line models.CartLine) LineDTO {
	dto := LineDTO{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Total:     line.Total,
	}
	if line.Product != nil {
		dto.ProductName = line.Product.Name
		dto.ProductSlug = line.Product.Slug
		dto.EffectivePrice = line.Product.EffectivePrice()
		dto.Photo = line.Product.PrimaryPhoto()
	}
	return dto
}

func toCartDTO(lines []models.CartLine) CartDTO {
	dto := CartDTO{Lines: make([]LineDTO, 0, len(lines))}
	for _, line := range lines {
		dto.Lines = append(dto.Lines, toLineDTO(line))
		dto.TotalQuantity += line.Quantity
		dto.TotalPrice += line.Total
	}
	return dto
}
