package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/enums"
)

// CheckoutSession is the pending payment handoff between cart and order. One
// pending row exists per customer at most; the webhook or the TTL sweeper
// moves it out of the pending state.
type CheckoutSession struct {
	ID               uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID       uuid.UUID                   `gorm:"column:customer_id;type:uuid;not null;index"`
	Status           enums.CheckoutSessionStatus `gorm:"column:status;not null;default:'pending'"`
	Amount           int64                       `gorm:"column:amount;not null"`
	Currency         string                      `gorm:"column:currency;not null"`
	ProviderID       *string                     `gorm:"column:provider_id;uniqueIndex"`
	PaymentURL       *string                     `gorm:"column:payment_url"`
	DeliveryAddress  string                      `gorm:"column:delivery_address;not null"`
	DeliveryPhone    string                      `gorm:"column:delivery_phone;not null"`
	DeliveryCityID   *uuid.UUID                  `gorm:"column:delivery_city_id;type:uuid"`
	DeliveryComment  *string                     `gorm:"column:delivery_comment"`
	OrderID          *uuid.UUID                  `gorm:"column:order_id;type:uuid"`
	ExpiresAt        time.Time                   `gorm:"column:expires_at;not null"`
	CompletedAt      *time.Time                  `gorm:"column:completed_at"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
