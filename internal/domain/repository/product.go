package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// ProductRepository describes catalog persistence.
type ProductRepository interface {
	List(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error)
	GetByID(ctx context.Context, productID string) (*model.Product, error)
	Top(ctx context.Context, limit int) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
	AddReview(ctx context.Context, productID string, review model.Review) (*model.Product, error)
}
