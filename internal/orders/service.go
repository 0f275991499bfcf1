package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes order snapshotting and history reads.
type Service interface {
	CreateFromCart(ctx context.Context, tx *gorm.DB, input CreateFromCartInput) (*models.Order, error)
	GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds an order service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// DeliveryInput carries shipping details captured at checkout.
type DeliveryInput struct {
	Address string
	Phone   string
	CityID  *uuid.UUID
	Comment *string
}

// CreateFromCartInput is the payload required to snapshot a cart into an order.
type CreateFromCartInput struct {
	CustomerID uuid.UUID
	Lines      []models.CartLine
	Delivery   DeliveryInput
}

// CreateFromCart freezes the cart lines into order lines inside the caller's
// transaction. Each line copies the product's name, slug, effective price, and
// photo so later catalog edits never rewrite history.
func (s *service) CreateFromCart(ctx context.Context, tx *gorm.DB, input CreateFromCartInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	repo := s.repo.WithTx(tx)

	delivery := &models.Delivery{
		CityID:  input.Delivery.CityID,
		Address: input.Delivery.Address,
		Phone:   input.Delivery.Phone,
		Comment: input.Delivery.Comment,
	}
	if _, err := repo.CreateDelivery(ctx, delivery); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery")
	}

	var total int64
	lines := make([]models.OrderLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing product")
		}
		productID := line.ProductID
		lines = append(lines, models.OrderLine{
			ProductID:   &productID,
			ProductName: line.Product.Name,
			ProductSlug: line.Product.Slug,
			UnitPrice:   line.Product.EffectivePrice(),
			Photo:       line.Product.PrimaryPhoto(),
			Quantity:    line.Quantity,
			Total:       line.Total,
		})
		total += line.Total
	}

	order := &models.Order{
		CustomerID: input.CustomerID,
		Status:     enums.OrderStatusPaid,
		Total:      total,
		DeliveryID: &delivery.ID,
		Lines:      lines,
	}
	if _, err := repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

// GetOrder returns one order in the customer's history.
func (s *service) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	record, err := s.repo.FindByIDAndCustomer(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := toOrderDTO(*record)
	return &dto, nil
}

// ListOrders returns the customer's order history, newest first.
func (s *service) ListOrders(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrderDTO(row))
	}
	return out, nil
}
