package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/loftmebel/loft-backend/internal/checkout"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
)

type stubFinalizer struct {
	calls []string
	err   error
}

func (s *stubFinalizer) Finalize(_ context.Context, providerID string) (*checkout.SessionDTO, error) {
	s.calls = append(s.calls, providerID)
	if s.err != nil {
		return nil, s.err
	}
	return &checkout.SessionDTO{}, nil
}

func newWebhookTestService(t *testing.T, finalizer *stubFinalizer) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Checkout: finalizer})
	require.NoError(t, err)
	return svc
}

func completedEvent(t *testing.T, sessionID string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"id": sessionID})
	require.NoError(t, err)
	return &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{
			Raw:    raw,
			Object: map[string]any{"id": sessionID},
		},
	}
}

func TestHandleEventFinalizesCompletedSession(t *testing.T) {
	t.Parallel()

	finalizer := &stubFinalizer{}
	svc := newWebhookTestService(t, finalizer)

	err := svc.HandleEvent(context.Background(), completedEvent(t, "cs_test_1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_test_1"}, finalizer.calls)
}

func TestHandleEventSwallowsRetriedDeliveries(t *testing.T) {
	t.Parallel()

	finalizer := &stubFinalizer{err: pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is not pending")}
	svc := newWebhookTestService(t, finalizer)

	err := svc.HandleEvent(context.Background(), completedEvent(t, "cs_test_1"))
	require.NoError(t, err)
	assert.Len(t, finalizer.calls, 1)
}

func TestHandleEventPropagatesOtherFailures(t *testing.T) {
	t.Parallel()

	finalizer := &stubFinalizer{err: pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")}
	svc := newWebhookTestService(t, finalizer)

	err := svc.HandleEvent(context.Background(), completedEvent(t, "cs_test_1"))
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}

func TestHandleEventIgnoresUnrelatedEvents(t *testing.T) {
	t.Parallel()

	finalizer := &stubFinalizer{}
	svc := newWebhookTestService(t, finalizer)

	event := &stripe.Event{
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`), Object: map[string]any{}},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), event))
	assert.Empty(t, finalizer.calls)
}

func TestHandleEventRejectsMissingData(t *testing.T) {
	t.Parallel()

	svc := newWebhookTestService(t, &stubFinalizer{})

	err := svc.HandleEvent(context.Background(), nil)
	require.Error(t, err)

	err = svc.HandleEvent(context.Background(), &stripe.Event{Type: stripe.EventTypeCheckoutSessionCompleted})
	require.Error(t, err)
}

func TestHandleEventRejectsMissingSessionID(t *testing.T) {
	t.Parallel()

	finalizer := &stubFinalizer{}
	svc := newWebhookTestService(t, finalizer)

	event := &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`), Object: map[string]any{}},
	}
	err := svc.HandleEvent(context.Background(), event)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Empty(t, finalizer.calls)
}
