package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loftmebel/loft-backend/internal/cart"
	"github.com/loftmebel/loft-backend/internal/orders"
	"github.com/loftmebel/loft-backend/pkg/config"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
)

const uuidDefault = `(lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-a'||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6))))`

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY DEFAULT %s,
  model_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  price INTEGER NOT NULL,
  discount INTEGER NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  color TEXT,
  size TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY DEFAULT %s,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY DEFAULT %s,
  customer_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY DEFAULT %s,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS checkout_sessions (
  id TEXT PRIMARY KEY DEFAULT %s,
  customer_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  amount INTEGER NOT NULL,
  currency TEXT NOT NULL,
  provider_id TEXT UNIQUE,
  payment_url TEXT,
  delivery_address TEXT NOT NULL,
  delivery_phone TEXT NOT NULL,
  delivery_city_id TEXT,
  delivery_comment TEXT,
  order_id TEXT,
  expires_at DATETIME NOT NULL,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS deliveries (
  id TEXT PRIMARY KEY DEFAULT %s,
  city_id TEXT,
  address TEXT NOT NULL,
  phone TEXT NOT NULL,
  comment TEXT,
  created_at DATETIME
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY DEFAULT %s,
  customer_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'paid',
  total INTEGER NOT NULL,
  delivery_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, uuidDefault),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY DEFAULT %s,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  product_slug TEXT NOT NULL,
  unit_price INTEGER NOT NULL,
  photo TEXT,
  quantity INTEGER NOT NULL,
  total INTEGER NOT NULL,
  created_at DATETIME
);`, uuidDefault),
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubStripeClient struct {
	sessions int
	err      error
}

func (s *stubStripeClient) CreateSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sessions++
	return &stripe.CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", s.sessions),
		URL: "https://checkout.stripe.test/" + stripe.StringValue(params.ClientReferenceID),
	}, nil
}

type checkoutFixture struct {
	db      *gorm.DB
	svc     Service
	cartSvc cart.Service
	stripe  *stubStripeClient
	cfg     config.CheckoutConfig
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	tx := gormTxRunner{db: db}

	cartRepo := cart.NewRepository(db)
	cartService, err := cart.NewService(cartRepo, tx)
	require.NoError(t, err)

	ordersService, err := orders.NewService(orders.NewRepository(db))
	require.NoError(t, err)

	stripeStub := &stubStripeClient{}
	cfg := config.CheckoutConfig{
		Currency:   "rub",
		SuccessURL: "https://loftmebel.test/checkout/success",
		CancelURL:  "https://loftmebel.test/checkout/cancel",
		PendingTTL: time.Hour,
	}

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(db),
		Tx:          tx,
		CartRepo:    cartRepo,
		CartService: cartService,
		Orders:      ordersService,
		Stripe:      stripeStub,
		Config:      cfg,
	})
	require.NoError(t, err)

	return &checkoutFixture{db: db, svc: svc, cartSvc: cartService, stripe: stripeStub, cfg: cfg}
}

func (f *checkoutFixture) seedBasket(t *testing.T, customerID uuid.UUID, slug string, price int64, discount, stock, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		ModelID:  uuid.New(),
		Name:     "Product " + slug,
		Slug:     slug,
		Price:    price,
		Discount: discount,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(product).Error)
	for i := 0; i < quantity; i++ {
		_, err := f.cartSvc.Apply(context.Background(), customerID, slug, enums.CartActionAdd)
		require.NoError(t, err)
	}
	return product
}

func TestBeginCreatesPendingSession(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	f.seedBasket(t, customerID, "sofa", 1000, 10, 5, 2)

	got, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutSessionStatusPending, got.Status)
	assert.Equal(t, int64(1800), got.Amount)
	assert.Equal(t, "rub", got.Currency)
	require.NotNil(t, got.PaymentURL)
	assert.True(t, got.ExpiresAt.After(time.Now().UTC()))
	assert.Equal(t, 1, f.stripe.sessions)

	var record models.CheckoutSession
	require.NoError(t, f.db.First(&record, "customer_id = ?", customerID).Error)
	require.NotNil(t, record.ProviderID)
	assert.Equal(t, "cs_test_1", *record.ProviderID)
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)

	_, err := f.svc.Begin(context.Background(), uuid.New(), BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestBeginValidatesDeliveryFields(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	customerID := uuid.New()
	f.seedBasket(t, customerID, "lamp", 300, 0, 3, 1)

	_, err := f.svc.Begin(context.Background(), customerID, BeginInput{Phone: "+70000000000"})
	require.Error(t, err)

	_, err = f.svc.Begin(context.Background(), customerID, BeginInput{Address: "Lenina 1"})
	require.Error(t, err)
}

func TestBeginReusesValidPendingSession(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	f.seedBasket(t, customerID, "chair", 500, 0, 5, 1)

	first, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)

	second, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Other street", Phone: "+79999999999"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.stripe.sessions)
}

func TestBeginReplacesExpiredPendingSession(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	f.seedBasket(t, customerID, "table", 2000, 0, 5, 1)

	first, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)

	// Age the pending row past its TTL.
	require.NoError(t, f.db.Model(&models.CheckoutSession{}).Where("id = ?", first.ID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	second, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, f.stripe.sessions)

	var stale models.CheckoutSession
	require.NoError(t, f.db.First(&stale, "id = ?", first.ID).Error)
	assert.Equal(t, enums.CheckoutSessionStatusExpired, stale.Status)
}

func TestBeginRecoversAfterProviderFailure(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	f.seedBasket(t, customerID, "desk", 1200, 0, 5, 1)

	f.stripe.err = errors.New("gateway unavailable")
	_, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())

	// The failed attempt must not strand a pending row without a link.
	var count int64
	require.NoError(t, f.db.Model(&models.CheckoutSession{}).
		Where("customer_id = ? AND status = ?", customerID, enums.CheckoutSessionStatusPending).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)

	f.stripe.err = nil
	got, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutSessionStatusPending, got.Status)
	require.NotNil(t, got.PaymentURL)
	assert.Equal(t, 1, f.stripe.sessions)

	var record models.CheckoutSession
	require.NoError(t, f.db.First(&record, "id = ?", got.ID).Error)
	require.NotNil(t, record.ProviderID)
	require.NotNil(t, record.PaymentURL)
}

func TestBeginRetiresPendingSessionWithoutPaymentLink(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	f.seedBasket(t, customerID, "wardrobe", 3000, 0, 5, 1)

	dead := &models.CheckoutSession{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Status:          enums.CheckoutSessionStatusPending,
		Amount:          3000,
		Currency:        "rub",
		DeliveryAddress: "Lenina 1",
		DeliveryPhone:   "+70000000000",
		ExpiresAt:       time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, f.db.Create(dead).Error)

	got, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)
	assert.NotEqual(t, dead.ID, got.ID)
	require.NotNil(t, got.PaymentURL)

	var retired models.CheckoutSession
	require.NoError(t, f.db.First(&retired, "id = ?", dead.ID).Error)
	assert.Equal(t, enums.CheckoutSessionStatusExpired, retired.Status)
}

func TestFinalizeCompletesSessionAndClearsBasket(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	product := f.seedBasket(t, customerID, "bed", 5000, 0, 4, 3)

	begun, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)

	var record models.CheckoutSession
	require.NoError(t, f.db.First(&record, "id = ?", begun.ID).Error)
	require.NotNil(t, record.ProviderID)

	got, err := f.svc.Finalize(ctx, *record.ProviderID)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutSessionStatusCompleted, got.Status)
	require.NotNil(t, got.OrderID)

	var order models.Order
	require.NoError(t, f.db.Preload("Lines").First(&order, "id = ?", got.OrderID).Error)
	assert.Equal(t, customerID, order.CustomerID)
	assert.Equal(t, int64(15000), order.Total)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 3, order.Lines[0].Quantity)

	var reloaded models.Product
	require.NoError(t, f.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)

	basket, err := f.cartSvc.GetCart(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, basket.Lines)
}

func TestFinalizeIsIdempotentPerProviderSession(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	f.seedBasket(t, customerID, "mirror", 900, 0, 5, 1)

	begun, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)

	var record models.CheckoutSession
	require.NoError(t, f.db.First(&record, "id = ?", begun.ID).Error)
	require.NotNil(t, record.ProviderID)

	_, err = f.svc.Finalize(ctx, *record.ProviderID)
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, *record.ProviderID)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFinalizeUnknownProviderSession(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)

	_, err := f.svc.Finalize(context.Background(), "cs_test_missing")
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestStatusReturnsLatestSession(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	customerID := uuid.New()

	_, err := f.svc.Status(ctx, customerID)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	f.seedBasket(t, customerID, "shelf", 700, 0, 5, 1)
	begun, err := f.svc.Begin(ctx, customerID, BeginInput{Address: "Lenina 1", Phone: "+70000000000"})
	require.NoError(t, err)

	got, err := f.svc.Status(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, begun.ID, got.ID)
	assert.Equal(t, enums.CheckoutSessionStatusPending, got.Status)
}

func TestExpireStaleSweepsOnlyElapsedPendings(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := &models.CheckoutSession{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		Status:          enums.CheckoutSessionStatusPending,
		Amount:          1000,
		Currency:        "rub",
		DeliveryAddress: "Lenina 1",
		DeliveryPhone:   "+70000000000",
		ExpiresAt:       now.Add(-time.Hour),
	}
	fresh := &models.CheckoutSession{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		Status:          enums.CheckoutSessionStatusPending,
		Amount:          2000,
		Currency:        "rub",
		DeliveryAddress: "Mira 5",
		DeliveryPhone:   "+71111111111",
		ExpiresAt:       now.Add(time.Hour),
	}
	require.NoError(t, f.db.Create(stale).Error)
	require.NoError(t, f.db.Create(fresh).Error)

	swept, err := f.svc.ExpireStale(ctx, now, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	var reloaded models.CheckoutSession
	require.NoError(t, f.db.First(&reloaded, "id = ?", stale.ID).Error)
	assert.Equal(t, enums.CheckoutSessionStatusExpired, reloaded.Status)

	reloaded = models.CheckoutSession{}
	require.NoError(t, f.db.First(&reloaded, "id = ?", fresh.ID).Error)
	assert.Equal(t, enums.CheckoutSessionStatusPending, reloaded.Status)
}
