package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
)

// BeginInput carries the delivery details captured on the checkout form.
type BeginInput struct {
	Address string     `json:"address" validate:"required"`
	Phone   string     `json:"phone" validate:"required"`
	CityID  *uuid.UUID `json:"city_id,omitempty"`
	Comment *string    `json:"comment,omitempty"`
}

// SessionDTO reports the state of a checkout session to the storefront.
type SessionDTO struct {
	ID         uuid.UUID                   `json:"id"`
	Status     enums.CheckoutSessionStatus `json:"status"`
	Amount     int64                       `json:"amount"`
	Currency   string                      `json:"currency"`
	PaymentURL *string                     `json:"payment_url,omitempty"`
	OrderID    *uuid.UUID                  `json:"order_id,omitempty"`
	ExpiresAt  time.Time                   `json:"expires_at"`
}

func toSessionDTO(record models.CheckoutSession) SessionDTO {
	return SessionDTO{
		ID:         record.ID,
		Status:     record.Status,
		Amount:     record.Amount,
		Currency:   record.Currency,
		PaymentURL: record.PaymentURL,
		OrderID:    record.OrderID,
		ExpiresAt:  record.ExpiresAt,
	}
}
