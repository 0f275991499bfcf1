package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	"github.com/loftmebel/loft-backend/pkg/enums"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes basket operations.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*CartDTO, error)
	Apply(ctx context.Context, customerID uuid.UUID, slug string, action enums.CartAction) (*CartDTO, error)
	ClearCart(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// GetCart returns the customer's basket, creating an empty one on first read.
func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*CartDTO, error) {
	record, err := s.ensureCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	dto := toCartDTO(record.Lines)
	return &dto, nil
}

// Apply mutates a single basket line identified by product slug. Add is capped
// at the product's current stock and quietly keeps the quantity unchanged when
// the cap is hit; delete steps the quantity down and drops the line at zero;
// clear drops the line outright.
func (s *service) Apply(ctx context.Context, customerID uuid.UUID, slug string, action enums.CartAction) (*CartDTO, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action")
	}

	record, err := s.ensureCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.applyLine(ctx, s.repo.WithTx(tx), record.ID, product, action)
	})
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.ListLines(ctx, record.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	dto := toCartDTO(lines)
	return &dto, nil
}

func (s *service) applyLine(ctx context.Context, repo *Repository, cartID uuid.UUID, product *models.Product, action enums.CartAction) error {
	line, err := repo.FindLine(ctx, cartID, product.ID)
	missing := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !missing {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	switch action {
	case enums.CartActionAdd:
		if missing {
			if product.Stock < 1 {
				return nil
			}
			line = &models.CartLine{
				CartID:    cartID,
				ProductID: product.ID,
				Quantity:  1,
				Total:     product.EffectivePrice(),
			}
			if err := repo.CreateLine(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}
			return nil
		}
		// Stock cap: an add beyond available stock is a silent no-op.
		if line.Quantity >= product.Stock {
			return nil
		}
		line.Quantity++
		line.Total = int64(line.Quantity) * product.EffectivePrice()
		if err := repo.SaveLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}
		return nil

	case enums.CartActionDelete:
		if missing {
			return nil
		}
		line.Quantity--
		if line.Quantity <= 0 {
			if err := repo.DeleteLine(ctx, line.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
			}
			return nil
		}
		line.Total = int64(line.Quantity) * product.EffectivePrice()
		if err := repo.SaveLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}
		return nil

	case enums.CartActionClear:
		if missing {
			return nil
		}
		if err := repo.DeleteLine(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}
		return nil

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action")
	}
}

// ClearCart decrements product stock for every line and empties the basket.
// It must run inside the caller's transaction so order snapshotting and stock
// adjustments commit together.
func (s *service) ClearCart(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	repo := s.repo.WithTx(tx)

	record, err := repo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	for _, line := range record.Lines {
		product, err := repo.FindProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		stock := product.Stock - line.Quantity
		if stock < 0 {
			stock = 0
		}
		if err := repo.UpdateProductStock(ctx, product.ID, stock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product stock")
		}
	}

	if err := repo.DeleteLines(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
	}
	return nil
}

func (s *service) ensureCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	record, err := s.repo.FindByCustomer(ctx, customerID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	record = &models.Cart{CustomerID: customerID}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return record, nil
}
