package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/loftmebel/loft-backend/pkg/db/models"
	pkgerrors "github.com/loftmebel/loft-backend/pkg/errors"
	"github.com/loftmebel/loft-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes storefront catalog reads.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListCategoryProducts(ctx context.Context, slug string, params pagination.Params) (*ProductPageDTO, error)
	ListSaleProducts(ctx context.Context, params pagination.Params) (*ProductPageDTO, error)
	GetProduct(ctx context.Context, slug string) (*ProductDetailDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ListCategories returns every storefront category.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

// ListCategoryProducts returns a page of active products in the named category.
func (s *service) ListCategoryProducts(ctx context.Context, slug string, params pagination.Params) (*ProductPageDTO, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug is required")
	}

	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	return s.page(ctx, params, func(cursor *pagination.Cursor, limit int) ([]models.Product, error) {
		return s.repo.ListProductsByCategory(ctx, category.ID, cursor, limit)
	})
}

// ListSaleProducts returns a page of discounted products.
func (s *service) ListSaleProducts(ctx context.Context, params pagination.Params) (*ProductPageDTO, error) {
	return s.page(ctx, params, func(cursor *pagination.Cursor, limit int) ([]models.Product, error) {
		return s.repo.ListProductsOnSale(ctx, cursor, limit)
	})
}

func (s *service) page(ctx context.Context, params pagination.Params, load func(*pagination.Cursor, int) ([]models.Product, error)) (*ProductPageDTO, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := load(cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPageDTO{Products: make([]ProductSummaryDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	for _, row := range rows {
		page.Products = append(page.Products, toProductSummaryDTO(row))
	}
	return page, nil
}

// GetProduct loads the product detail page payload by slug.
func (s *service) GetProduct(ctx context.Context, slug string) (*ProductDetailDTO, error) {
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

	var category *models.Category
	if product.Model != nil && product.Model.CategoryID != uuid.Nil {
		category, err = s.repo.FindCategoryByID(ctx, product.Model.CategoryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	variants, err := s.repo.ListVariantsByModel(ctx, product.ModelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variants")
	}

	detail := toProductDetailDTO(*product, category, variants)
	return &detail, nil
}
