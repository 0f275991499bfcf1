package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/loftmebel/loft-backend/pkg/logger"
	"go.uber.org/multierr"
)

const expireBatchSize = 200

type checkoutExpirer interface {
	ExpireStale(ctx context.Context, now time.Time, limit int) (int, error)
}

// CheckoutTTLJobParams configure the pending checkout sweeper.
type CheckoutTTLJobParams struct {
	Logger   *logger.Logger
	Checkout checkoutExpirer
}

// NewCheckoutTTLJob builds the cron job that expires stale pending checkout
// sessions so abandoned payments never block a new checkout.
func NewCheckoutTTLJob(params CheckoutTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Checkout == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &checkoutTTLJob{
		logg:     params.Logger,
		checkout: params.Checkout,
		now:      time.Now,
	}, nil
}

type checkoutTTLJob struct {
	logg     *logger.Logger
	checkout checkoutExpirer
	now      func() time.Time
}

func (j *checkoutTTLJob) Name() string { return "checkout-ttl" }

func (j *checkoutTTLJob) Run(ctx context.Context) error {
	var errs []error
	total := 0
	for {
		expired, err := j.checkout.ExpireStale(ctx, j.now().UTC(), expireBatchSize)
		total += expired
		if err != nil {
			errs = append(errs, err)
			break
		}
		if expired < expireBatchSize {
			break
		}
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": total})
	j.logg.Info(logCtx, "checkout expiration loop complete")
	return multierr.Combine(errs...)
}
