package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for checkout sessions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repository bound to the provided DB.
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

// Create inserts a checkout session row.
func (r *Repository) Create(ctx context.Context, record *models.CheckoutSession) (*models.CheckoutSession, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Update saves the provided checkout session.
func (r *Repository) Update(ctx context.Context, record *models.CheckoutSession) (*models.CheckoutSession, error) {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindPendingByCustomer returns the customer's pending session when one exists.
func (r *Repository) FindPendingByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CheckoutSession, error) {
	var record models.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, enums.CheckoutSessionStatusPending).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindLatestByCustomer returns the customer's most recent session of any status.
func (r *Repository) FindLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CheckoutSession, error) {
	var record models.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindPendingByProviderID returns the pending session tied to a provider session id.
func (r *Repository) FindPendingByProviderID(ctx context.Context, providerID string) (*models.CheckoutSession, error) {
	var record models.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ?", providerID, enums.CheckoutSessionStatusPending).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListExpiredPending returns pending sessions whose TTL elapsed before cutoff.
func (r *Repository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.CheckoutSession, error) {
	var rows []models.CheckoutSession
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", enums.CheckoutSessionStatusPending, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkExpired transitions a pending session to expired.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutSession{}).
		Where("id = ? AND status = ?", id, enums.CheckoutSessionStatusPending).
		Update("status", enums.CheckoutSessionStatusExpired).Error
}
