package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/internal/orders"
	"github.com/loftmebel/loft-backend/pkg/config"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLoader interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
}

type cartClearer interface {
	ClearCart(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

type orderCreator interface {
	CreateFromCart(ctx context.Context, tx *gorm.DB, input orders.CreateFromCartInput) (*models.Order, error)
}

// Service drives the payment handoff and its resolution.
type Service interface {
	Begin(ctx context.Context, customerID uuid.UUID, input BeginInput) (*SessionDTO, error)
	Status(ctx context.Context, customerID uuid.UUID) (*SessionDTO, error)
	Finalize(ctx context.Context, providerID string) (*SessionDTO, error)
	ExpireStale(ctx context.Context, now time.Time, limit int) (int, error)
}

type service struct {
	repo        *Repository
	tx          txRunner
	cartRepo    cartLoader
	cartService cartClearer
	orders      orderCreator
	stripe      StripeCheckoutClient
	cfg         config.CheckoutConfig
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Repo        *Repository
	Tx          txRunner
	CartRepo    cartLoader
	CartService cartClearer
	Orders      orderCreator
	Stripe      StripeCheckoutClient
	Config      config.CheckoutConfig
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.CartService == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	if params.Config.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending ttl must be positive")
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		cartRepo:    params.CartRepo,
		cartService: params.CartService,
		orders:      params.Orders,
		stripe:      params.Stripe,
		cfg:         params.Config,
	}, nil
}

// Begin creates a payment session for the customer's basket. A still-valid
// pending session is returned as-is so double submits reuse the same payment
// link instead of charging twice.
func (s *service) Begin(ctx context.Context, customerID uuid.UUID, input BeginInput) (*SessionDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery phone is required")
	}

	now := time.Now().UTC()

	if existing, err := s.repo.FindPendingByCustomer(ctx, customerID); err == nil {
		// Only a session that still carries a payment link is worth
		// handing back; anything else gets retired and reissued.
		if existing.ProviderID != nil && existing.ExpiresAt.After(now) {
			dto := toSessionDTO(*existing)
			return &dto, nil
		}
		if err := s.repo.MarkExpired(ctx, existing.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire stale session")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending session")
	}

	basket, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(basket.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	amount := basket.TotalPrice()
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart total must be positive")
	}

	record := &models.CheckoutSession{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Status:          enums.CheckoutSessionStatusPending,
		Amount:          amount,
		Currency:        s.cfg.Currency,
		DeliveryAddress: strings.TrimSpace(input.Address),
		DeliveryPhone:   strings.TrimSpace(input.Phone),
		DeliveryCityID:  input.CityID,
		DeliveryComment: input.Comment,
		ExpiresAt:       now.Add(s.cfg.PendingTTL),
	}
	// The provider call happens before any row is written. A gateway
	// failure therefore leaves nothing pending, and the next Begin starts
	// over with a fresh session.
	providerSession, err := s.createProviderSession(ctx, record, basket)
	if err != nil {
		return nil, err
	}

	record.ProviderID = &providerSession.ID
	if providerSession.URL != "" {
		url := providerSession.URL
		record.PaymentURL = &url
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	dto := toSessionDTO(*record)
	return &dto, nil
}

func (s *service) createProviderSession(ctx context.Context, record *models.CheckoutSession, basket *models.Cart) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(basket.Lines))
	for _, line := range basket.Lines {
		if line.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing product")
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(record.Currency),
				UnitAmount: stripe.Int64(line.Product.EffectivePrice() * 100),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Product.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(record.ID.String()),
	}

	providerSession, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe session")
	}
	return providerSession, nil
}

// Status reports the customer's most recent checkout session. The success page
// reads this; the webhook is the only writer of the completed state.
func (s *service) Status(ctx context.Context, customerID uuid.UUID) (*SessionDTO, error) {
	record, err := s.repo.FindLatestByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	dto := toSessionDTO(*record)
	return &dto, nil
}

// Finalize converts the pending session into an order: snapshot the cart,
// decrement stock, empty the basket, and mark the session completed, all in
// one transaction. A session that is no longer pending is a no-op conflict so
// webhook retries stay idempotent.
func (s *service) Finalize(ctx context.Context, providerID string) (*SessionDTO, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider session id is required")
	}

	var finalized *models.CheckoutSession
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindPendingByProviderID(ctx, providerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is not pending")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
		}

		basket, err := s.cartRepo.FindByCustomer(ctx, record.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		order, err := s.orders.CreateFromCart(ctx, tx, orders.CreateFromCartInput{
			CustomerID: record.CustomerID,
			Lines:      basket.Lines,
			Delivery: orders.DeliveryInput{
				Address: record.DeliveryAddress,
				Phone:   record.DeliveryPhone,
				CityID:  record.DeliveryCityID,
				Comment: record.DeliveryComment,
			},
		})
		if err != nil {
			return err
		}

		if err := s.cartService.ClearCart(ctx, tx, record.CustomerID); err != nil {
			return err
		}

		now := time.Now().UTC()
		record.Status = enums.CheckoutSessionStatusCompleted
		record.OrderID = &order.ID
		record.CompletedAt = &now
		if _, err := repo.Update(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete checkout session")
		}

		finalized = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toSessionDTO(*finalized)
	return &dto, nil
}

// ExpireStale marks pending sessions whose TTL elapsed as expired and reports
// how many were swept.
func (s *service) ExpireStale(ctx context.Context, now time.Time, limit int) (int, error) {
	rows, err := s.repo.ListExpiredPending(ctx, now, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expired sessions")
	}

	expired := 0
	for _, row := range rows {
		if err := s.repo.MarkExpired(ctx, row.ID); err != nil {
			return expired, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark session expired")
		}
		expired++
	}
	return expired, nil
}
