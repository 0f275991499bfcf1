package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes customer profile operations.
type Service interface {
	GetProfile(ctx context.Context, customerID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	ListRegions(ctx context.Context) ([]RegionDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a customer service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateProfileInput captures the editable profile fields.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	CityID    *uuid.UUID
}

// GetProfile returns the profile payload for the customer.
func (s *service) GetProfile(ctx context.Context, customerID uuid.UUID) (*ProfileDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	dto := toProfileDTO(*customer)
	return &dto, nil
}

// UpdateProfile applies the provided fields and returns the refreshed profile.
func (s *service) UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if input.CityID != nil {
		if _, err := s.repo.FindCityByID(ctx, *input.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown city")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load city")
		}
		customer.CityID = input.CityID
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if customer.User != nil {
		if input.FirstName != nil && strings.TrimSpace(*input.FirstName) != "" {
			customer.User.FirstName = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil && strings.TrimSpace(*input.LastName) != "" {
			customer.User.LastName = strings.TrimSpace(*input.LastName)
		}
	}

	if _, err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}

	return s.GetProfile(ctx, customerID)
}

// ListRegions returns every region with its deliverable cities.
func (s *service) ListRegions(ctx context.Context) ([]RegionDTO, error) {
	rows, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list regions")
	}
	out := make([]RegionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRegionDTO(row))
	}
	return out, nil
}
