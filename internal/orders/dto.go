package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
)

// OrderLineDTO is a frozen purchase line as shown in order history.
type OrderLineDTO struct {
	ProductName string  `json:"product_name"`
	ProductSlug string  `json:"product_slug"`
	UnitPrice   int64   `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Total       int64   `json:"total"`
	Photo       *string `json:"photo,omitempty"`
}

// DeliveryDTO carries the shipping details attached to an order.
type DeliveryDTO struct {
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	CityName *string `json:"city_name,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

// OrderDTO is one entry in the customer's order history.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Status    enums.OrderStatus `json:"status"`
	Total     int64             `json:"total"`
	Lines     []OrderLineDTO    `json:"lines"`
	Delivery  *DeliveryDTO      `json:"delivery,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func toOrderDTO(order models.Order) OrderDTO {
	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineDTO{
			ProductName: line.ProductName,
			ProductSlug: line.ProductSlug,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Total:       line.Total,
			Photo:       line.Photo,
		})
	}

	dto := OrderDTO{
		ID:        order.ID,
		Status:    order.Status,
		Total:     order.Total,
		Lines:     lines,
		CreatedAt: order.CreatedAt,
	}
	if order.Delivery != nil {
		delivery := DeliveryDTO{
			Address: order.Delivery.Address,
			Phone:   order.Delivery.Phone,
			Comment: order.Delivery.Comment,
		}
		if order.Delivery.City != nil {
			delivery.CityName = &order.Delivery.City.Name
		}
		dto.Delivery = &delivery
	}
	return dto
}
