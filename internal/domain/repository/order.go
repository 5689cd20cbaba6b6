package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Order, int64, error)
	MarkPaid(ctx context.Context, orderID int64, transactionRef string) (*model.Order, error)
	MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error)
}
