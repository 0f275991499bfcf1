package contact

import (
	"context"

	"github.com/loftmebel/loft-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists contact form submissions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a contact request row.
func (r *Repository) Create(ctx context.Context, record *models.ContactRequest) (*models.ContactRequest, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
