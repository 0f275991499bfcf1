package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for customer profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customer repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new Customer.
func (r *Repository) Create(ctx context.Context, record *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads a customer with its user and city.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var record models.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("City").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByUserID loads the customer attached to a user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var record models.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("City").
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update saves the provided customer record. Name edits live on the attached
// User row, so associations are saved too.
func (r *Repository) Update(ctx context.Context, record *models.Customer) (*models.Customer, error) {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRegions returns delivery regions with their cities.
func (r *Repository) ListRegions(ctx context.Context) ([]models.Region, error) {
	var rows []models.Region
	if err := r.db.WithContext(ctx).
		Preload("Cities", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCityByID loads a city by primary key.
func (r *Repository) FindCityByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var record models.City
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
