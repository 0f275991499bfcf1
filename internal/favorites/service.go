package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"gorm.io/gorm"
)

// FavoriteDTO is one saved product in the favorites list.
type FavoriteDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductSlug    string    `json:"product_slug"`
	Price          int64     `json:"price"`
	EffectivePrice int64     `json:"effective_price"`
	InStock        bool      `json:"in_stock"`
	Photo          *string   `json:"photo,omitempty"`
}

// ToggleResult reports the post-toggle state of a product.
type ToggleResult struct {
	ProductID uuid.UUID `json:"product_id"`
	Favorited bool      `json:"favorited"`
}

// Service exposes favorites operations.
type Service interface {
	Toggle(ctx context.Context, customerID uuid.UUID, slug string) (*ToggleResult, error)
	List(ctx context.Context, customerID uuid.UUID) ([]FavoriteDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a favorites service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	return &service{repo: repo}, nil
}

// Toggle flips the saved state of a product for the customer.
func (s *service) Toggle(ctx context.Context, customerID uuid.UUID, slug string) (*ToggleResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	existing, err := s.repo.Find(ctx, customerID, product.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorite")
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
		}
		return &ToggleResult{ProductID: product.ID, Favorited: false}, nil
	}

	record := &models.FavoriteProduct{CustomerID: customerID, ProductID: product.ID}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save favorite")
	}
	return &ToggleResult{ProductID: product.ID, Favorited: true}, nil
}

// List returns the customer's saved products.
func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]FavoriteDTO, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	out := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		out = append(out, FavoriteDTO{
			ProductID:      row.ProductID,
			ProductName:    row.Product.Name,
			ProductSlug:    row.Product.Slug,
			Price:          row.Product.Price,
			EffectivePrice: row.Product.EffectivePrice(),
			InStock:        row.Product.Stock > 0,
			Photo:          row.Product.PrimaryPhoto(),
		})
	}
	return out, nil
}
