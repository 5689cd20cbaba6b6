package handlers

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (*pkgAuth.Claims, error)
}

// CatalogFacade encapsulates product operations exposed via HTTP.
type CatalogFacade interface {
	Products(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error)
	Product(ctx context.Context, productID string) (*model.Product, error)
	TopProducts(ctx context.Context, limit int) ([]model.Product, error)
	CreateProduct(ctx context.Context, input usecase.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, input usecase.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ReviewProduct(ctx context.Context, productID string, userID int64, rating int, comment string) (*model.Product, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID int64, input usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, orderID, userID int64, admin bool) (*model.Order, error)
	MyOrders(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, error)
	AllOrders(ctx context.Context, page, pageSize int) ([]model.Order, int64, error)
	DeliverOrder(ctx context.Context, orderID int64) (*model.Order, error)
}

// PaymentFacade drives the checkout payment workflow.
type PaymentFacade interface {
	RequestPaymentIntent(ctx context.Context, orderID, userID int64, admin bool) (*model.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, orderID, userID int64, admin bool, confirmation model.PaymentConfirmation) (*model.Order, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	PaymentFacade
}
