package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
)

// SubmitInput is a callback request from the storefront.
type SubmitInput struct {
	Name    string
	Phone   string
	Message *string
}

// SubmitResult acknowledges a stored contact request.
type SubmitResult struct {
	ID uuid.UUID `json:"id"`
}

// Service accepts contact form submissions.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

type service struct {
	repo *Repository
}

// NewService builds a contact service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

// Submit stores a callback request.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	record := &models.ContactRequest{
		Name:    name,
		Phone:   phone,
		Message: input.Message,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save contact request")
	}
	return &SubmitResult{ID: record.ID}, nil
}
