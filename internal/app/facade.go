package app

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/usecase"
)

// StorefrontFacade aggregates the business use cases behind one surface
// consumed by the HTTP layer.
type StorefrontFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
}

func NewStorefrontFacade(auth *usecase.AuthUseCase, catalog *usecase.CatalogUseCase, orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase) *StorefrontFacade {
	return &StorefrontFacade{auth: auth, catalog: catalog, orders: orders, payments: payments}
}

func (f *StorefrontFacade) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	return f.auth.Register(ctx, name, email, password)
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StorefrontFacade) ParseToken(token string) (*pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) Products(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error) {
	return f.catalog.List(ctx, keyword, page, pageSize)
}

func (f *StorefrontFacade) Product(ctx context.Context, productID string) (*model.Product, error) {
	return f.catalog.Get(ctx, productID)
}

func (f *StorefrontFacade) TopProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return f.catalog.Top(ctx, limit)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, input usecase.ProductInput) (*model.Product, error) {
	return f.catalog.Create(ctx, input)
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, productID string, input usecase.ProductInput) (*model.Product, error) {
	return f.catalog.Update(ctx, productID, input)
}

func (f *StorefrontFacade) DeleteProduct(ctx context.Context, productID string) error {
	return f.catalog.Delete(ctx, productID)
}

// ReviewProduct resolves the reviewer before delegating, so the stored
// review carries the account name current at submission time.
func (f *StorefrontFacade) ReviewProduct(ctx context.Context, productID string, userID int64, rating int, comment string) (*model.Product, error) {
	user, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return f.catalog.AddReview(ctx, productID, user, rating, comment)
}

func (f *StorefrontFacade) CreateOrder(ctx context.Context, userID int64, input usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, userID, input)
}

func (f *StorefrontFacade) Order(ctx context.Context, orderID, userID int64, admin bool) (*model.Order, error) {
	return f.orders.Get(ctx, orderID, userID, admin)
}

func (f *StorefrontFacade) MyOrders(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, error) {
	return f.orders.ListMine(ctx, userID, page, pageSize)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	return f.orders.ListAll(ctx, page, pageSize)
}

func (f *StorefrontFacade) DeliverOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.MarkDelivered(ctx, orderID)
}

func (f *StorefrontFacade) RequestPaymentIntent(ctx context.Context, orderID, userID int64, admin bool) (*model.PaymentIntent, error) {
	return f.payments.RequestIntent(ctx, orderID, userID, admin)
}

func (f *StorefrontFacade) ConfirmPayment(ctx context.Context, orderID, userID int64, admin bool, confirmation model.PaymentConfirmation) (*model.Order, error) {
	return f.payments.Confirm(ctx, orderID, userID, admin, confirmation)
}
