package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"gorm.io/gorm"
)

// UserRepository exposes persistence operations for user identities.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository bound to the provided DB.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{db: tx}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, record *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByEmail loads a user by normalized email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateLastLogin stamps the user's last login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
