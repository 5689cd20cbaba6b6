package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const defaultTopProducts = 3

// ProductInput describes the editable fields of a catalog entry.
type ProductInput struct {
	Name         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        decimal.Decimal
	CountInStock int
}

// CatalogUseCase manages the product catalog and its reviews.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// List returns one page of the catalog, optionally filtered by keyword.
func (u *CatalogUseCase) List(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error) {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return u.products.List(ctx, strings.TrimSpace(keyword), page, pageSize)
}

// Get fetches a single product with its reviews.
func (u *CatalogUseCase) Get(ctx context.Context, productID string) (*model.Product, error) {
	return u.products.GetByID(ctx, productID)
}

// Top returns the highest-rated products.
func (u *CatalogUseCase) Top(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = defaultTopProducts
	}
	return u.products.Top(ctx, limit)
}

// Create adds a catalog entry.
func (u *CatalogUseCase) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	return u.products.Create(ctx, &model.Product{
		Name:         input.Name,
		Image:        input.Image,
		Brand:        input.Brand,
		Category:     input.Category,
		Description:  input.Description,
		Price:        input.Price,
		CountInStock: input.CountInStock,
		Reviews:      []model.Review{},
	})
}

// Update replaces the editable fields of a catalog entry.
func (u *CatalogUseCase) Update(ctx context.Context, productID string, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	return u.products.Update(ctx, &model.Product{
		ID:           productID,
		Name:         input.Name,
		Image:        input.Image,
		Brand:        input.Brand,
		Category:     input.Category,
		Description:  input.Description,
		Price:        input.Price,
		CountInStock: input.CountInStock,
	})
}

// Delete removes a catalog entry.
func (u *CatalogUseCase) Delete(ctx context.Context, productID string) error {
	return u.products.Delete(ctx, productID)
}

// AddReview attaches a review to a product. One review per user per
// product; duplicates are rejected.
func (u *CatalogUseCase) AddReview(ctx context.Context, productID string, user *model.User, rating int, comment string) (*model.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domainErrors.ErrValidation)
	}
	review := model.Review{
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	return u.products.AddReview(ctx, productID, review)
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: product name is required", domainErrors.ErrValidation)
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("%w: negative price", domainErrors.ErrValidation)
	}
	if input.CountInStock < 0 {
		return fmt.Errorf("%w: negative stock count", domainErrors.ErrValidation)
	}
	return nil
}
