package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
)

const uuidDefault = `(lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-a'||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6))))`

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
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

func newCartTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, price int64, discount, stock int) *models.Product {
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
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestApplyAddComputesDiscountedTotals(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	seedProduct(t, db, "sofa", 1000, 10, 5)

	got, err := svc.Apply(ctx, customerID, "sofa", enums.CartActionAdd)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].Quantity)
	assert.Equal(t, int64(900), got.Lines[0].Total)

	got, err = svc.Apply(ctx, customerID, "sofa", enums.CartActionAdd)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, int64(1800), got.Lines[0].Total)
	assert.Equal(t, 2, got.TotalQuantity)
	assert.Equal(t, int64(1800), got.TotalPrice)
}

func TestApplyAddIsCappedAtStock(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	seedProduct(t, db, "chair", 500, 0, 2)

	for i := 0; i < 5; i++ {
		_, err := svc.Apply(ctx, customerID, "chair", enums.CartActionAdd)
		require.NoError(t, err)
	}

	got, err := svc.GetCart(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, int64(1000), got.TotalPrice)
}

func TestApplyAddOutOfStockIsNoOp(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	seedProduct(t, db, "lamp", 300, 0, 0)

	got, err := svc.Apply(ctx, customerID, "lamp", enums.CartActionAdd)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestApplyDeleteStepsDownAndDropsLine(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	seedProduct(t, db, "table", 2000, 0, 10)

	_, err := svc.Apply(ctx, customerID, "table", enums.CartActionAdd)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, customerID, "table", enums.CartActionAdd)
	require.NoError(t, err)

	got, err := svc.Apply(ctx, customerID, "table", enums.CartActionDelete)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].Quantity)
	assert.Equal(t, int64(2000), got.Lines[0].Total)

	got, err = svc.Apply(ctx, customerID, "table", enums.CartActionDelete)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestApplyClearDropsWholeLine(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	seedProduct(t, db, "shelf", 700, 0, 10)

	for i := 0; i < 3; i++ {
		_, err := svc.Apply(ctx, customerID, "shelf", enums.CartActionAdd)
		require.NoError(t, err)
	}

	got, err := svc.Apply(ctx, customerID, "shelf", enums.CartActionClear)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.Equal(t, int64(0), got.TotalPrice)
}

func TestClearCartDecrementsStockAndEmptiesBasket(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	product := seedProduct(t, db, "bed", 5000, 0, 4)

	for i := 0; i < 3; i++ {
		_, err := svc.Apply(ctx, customerID, "bed", enums.CartActionAdd)
		require.NoError(t, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ClearCart(ctx, tx, customerID)
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)

	got, err := svc.GetCart(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestClearCartNeverGoesBelowZeroStock(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	product := seedProduct(t, db, "mirror", 900, 0, 2)

	_, err := svc.Apply(ctx, customerID, "mirror", enums.CartActionAdd)
	require.NoError(t, err)
	_, err = svc.Apply(ctx, customerID, "mirror", enums.CartActionAdd)
	require.NoError(t, err)

	// Stock shrank after the lines were added.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock", 1).Error)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.ClearCart(ctx, tx, customerID)
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestApplyUnknownProduct(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)

	_, err := svc.Apply(context.Background(), uuid.New(), "missing", enums.CartActionAdd)
	require.Error(t, err)
}

func TestGetCartCreatesEmptyBasketOnFirstRead(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()

	got, err := svc.GetCart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("customer_id = ?", customerID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
