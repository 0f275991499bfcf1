package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes read operations over the catalog tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryBySlug loads a single category.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListProductsByCategory returns active products in a category, newest first,
// using cursor pagination.
func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Joins("JOIN product_models ON product_models.id = products.model_id").
		Where("product_models.category_id = ?", categoryID).
		Where("products.is_active = ?", true)

	return r.paginate(query, cursor, limit)
}

// ListProductsOnSale returns active discounted products, newest first.
func (r *Repository) ListProductsOnSale(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("products.discount > 0").
		Where("products.is_active = ?", true)

	return r.paginate(query, cursor, limit)
}

func (r *Repository) paginate(query *gorm.DB, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	if cursor != nil {
		query = query.Where(
			"(products.created_at, products.id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.
		Order("products.created_at DESC, products.id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindProductBySlug loads a product with its images and model line.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Model").
		Where("slug = ?", slug).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindCategoryByID loads a category by primary key.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListVariantsByModel returns active sibling products that share a model line.
func (r *Repository) ListVariantsByModel(ctx context.Context, modelID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("model_id = ? AND is_active = ?", modelID, true).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
