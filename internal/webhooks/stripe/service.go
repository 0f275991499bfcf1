package stripewebhook

import (
	"context"

	"github.com/loftmebel/loft-backend/internal/checkout"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"github.com/stripe/stripe-go/v84"
)

type checkoutFinalizer interface {
	Finalize(ctx context.Context, providerID string) (*checkout.SessionDTO, error)
}

// ServiceParams bundles the dependencies for the webhook service.
type ServiceParams struct {
	Checkout checkoutFinalizer
}

// Service resolves verified Stripe events into checkout state transitions.
type Service struct {
	checkout checkoutFinalizer
}

// NewService constructs the webhook service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service required")
	}
	return &Service{checkout: params.Checkout}, nil
}

// HandleEvent routes a verified event. Completed checkout sessions are the
// only events that move money state; everything else is acknowledged and
// dropped.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		providerID := event.GetObjectValue("id")
		if providerID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing")
		}
		_, err := s.checkout.Finalize(ctx, providerID)
		if err != nil {
			// Retried deliveries land here after the first success.
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
				return nil
			}
			return err
		}
		return nil
	default:
		return nil
	}
}
