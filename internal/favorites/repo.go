package favorites

import (
	"context"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for saved products.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find returns the favorite row for a customer/product pair.
func (r *Repository) Find(ctx context.Context, customerID, productID uuid.UUID) (*models.FavoriteProduct, error) {
	var record models.FavoriteProduct
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a favorite row.
func (r *Repository) Create(ctx context.Context, record *models.FavoriteProduct) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Delete removes a favorite row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.FavoriteProduct{}).Error
}

// ListByCustomer returns the customer's saved products, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.FavoriteProduct, error) {
	var rows []models.FavoriteProduct
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindProductBySlug loads an active product by slug.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var record models.Product
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
