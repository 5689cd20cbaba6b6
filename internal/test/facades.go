package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (*pkgAuth.Claims, error)
}

// Register returns a user and token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name, email, password)
	}
	return &model.User{ID: 1, Name: name, Email: email}, "token", nil
}

// Authenticate returns a user and token for successful login scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: 1, Email: email}, "token", nil
}

// ParseToken returns claims for the authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.Claims{UserID: 1}, nil
}

// CatalogFacadeStub provides controllable behaviour for product endpoints.
type CatalogFacadeStub struct {
	ProductsFn      func(context.Context, string, int, int) (*model.ProductPage, error)
	ProductFn       func(context.Context, string) (*model.Product, error)
	TopProductsFn   func(context.Context, int) ([]model.Product, error)
	CreateProductFn func(context.Context, usecase.ProductInput) (*model.Product, error)
	UpdateProductFn func(context.Context, string, usecase.ProductInput) (*model.Product, error)
	DeleteProductFn func(context.Context, string) error
	ReviewProductFn func(context.Context, string, int64, int, string) (*model.Product, error)
}

// Products returns a predefined catalog page.
func (s CatalogFacadeStub) Products(ctx context.Context, keyword string, page, pageSize int) (*model.ProductPage, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, keyword, page, pageSize)
	}
	return &model.ProductPage{Products: []model.Product{{ID: "p1", Name: "Widget"}}, Page: page, Pages: 1, Total: 1}, nil
}

// Product returns a predefined product.
func (s CatalogFacadeStub) Product(ctx context.Context, productID string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, productID)
	}
	return &model.Product{ID: productID, Name: "Widget"}, nil
}

// TopProducts returns predefined ranked products.
func (s CatalogFacadeStub) TopProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if s.TopProductsFn != nil {
		return s.TopProductsFn(ctx, limit)
	}
	return []model.Product{{ID: "p1", Name: "Widget", Rating: 5}}, nil
}

// CreateProduct delegates to provided function or echoes the input.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, input usecase.ProductInput) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, input)
	}
	return &model.Product{ID: "p1", Name: input.Name, Price: input.Price}, nil
}

// UpdateProduct delegates to provided function or echoes the input.
func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, productID string, input usecase.ProductInput) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, productID, input)
	}
	return &model.Product{ID: productID, Name: input.Name, Price: input.Price}, nil
}

// DeleteProduct executes configured deletion handler.
func (s CatalogFacadeStub) DeleteProduct(ctx context.Context, productID string) error {
	if s.DeleteProductFn != nil {
		return s.DeleteProductFn(ctx, productID)
	}
	return nil
}

// ReviewProduct executes configured review handler.
func (s CatalogFacadeStub) ReviewProduct(ctx context.Context, productID string, userID int64, rating int, comment string) (*model.Product, error) {
	if s.ReviewProductFn != nil {
		return s.ReviewProductFn(ctx, productID, userID, rating, comment)
	}
	return &model.Product{ID: productID, NumReviews: 1, Rating: float64(rating)}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateOrderFn  func(context.Context, int64, usecase.CreateOrderInput) (*model.Order, error)
	OrderFn        func(context.Context, int64, int64, bool) (*model.Order, error)
	MyOrdersFn     func(context.Context, int64, int, int) ([]model.Order, error)
	AllOrdersFn    func(context.Context, int, int) ([]model.Order, int64, error)
	DeliverOrderFn func(context.Context, int64) (*model.Order, error)
}

// CreateOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, userID int64, input usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, userID, input)
	}
	return &model.Order{ID: 1, UserID: userID, PaymentMethod: input.PaymentMethod}, nil
}

// Order returns the configured order for detail requests.
func (s OrderFacadeStub) Order(ctx context.Context, orderID, userID int64, admin bool) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, userID, admin)
	}
	return &model.Order{ID: orderID, UserID: userID}, nil
}

// MyOrders returns predefined orders for given user.
func (s OrderFacadeStub) MyOrders(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, userID, page, pageSize)
	}
	return []model.Order{{ID: 1, UserID: userID}}, nil
}

// AllOrders returns predefined orders for administrators.
func (s OrderFacadeStub) AllOrders(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, page, pageSize)
	}
	return []model.Order{{ID: 1, UserID: 2}}, 1, nil
}

// DeliverOrder executes configured delivery handler.
func (s OrderFacadeStub) DeliverOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.DeliverOrderFn != nil {
		return s.DeliverOrderFn(ctx, orderID)
	}
	now := time.Unix(0, 0)
	return &model.Order{ID: orderID, IsPaid: true, IsDelivered: true, DeliveredAt: &now}, nil
}

// PaymentFacadeStub simulates payment workflow operations.
type PaymentFacadeStub struct {
	RequestIntentFn func(context.Context, int64, int64, bool) (*model.PaymentIntent, error)
	ConfirmFn       func(context.Context, int64, int64, bool, model.PaymentConfirmation) (*model.Order, error)
}

// RequestPaymentIntent returns a predefined intent.
func (s PaymentFacadeStub) RequestPaymentIntent(ctx context.Context, orderID, userID int64, admin bool) (*model.PaymentIntent, error) {
	if s.RequestIntentFn != nil {
		return s.RequestIntentFn(ctx, orderID, userID, admin)
	}
	return &model.PaymentIntent{GatewayOrderID: "order_stub", Amount: 1000, Currency: "USD"}, nil
}

// ConfirmPayment executes configured confirmation handler.
func (s PaymentFacadeStub) ConfirmPayment(ctx context.Context, orderID, userID int64, admin bool, confirmation model.PaymentConfirmation) (*model.Order, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID, userID, admin, confirmation)
	}
	now := time.Unix(0, 0)
	return &model.Order{ID: orderID, UserID: userID, IsPaid: true, PaidAt: &now, TransactionRef: confirmation.PaymentID}, nil
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}

// GatewayStub simulates the payment processor adapter.
type GatewayStub struct {
	CreateIntentFn func(context.Context, int64, string, string) (*model.PaymentIntent, error)
	VerifyFn       func(model.PaymentConfirmation) (bool, string)

	Intents []model.PaymentIntent
}

// CreateIntent records the request and returns a deterministic intent.
func (s *GatewayStub) CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receiptRef string) (*model.PaymentIntent, error) {
	if s.CreateIntentFn != nil {
		return s.CreateIntentFn(ctx, amountMinorUnits, currency, receiptRef)
	}
	intent := model.PaymentIntent{GatewayOrderID: "order_stub", Amount: amountMinorUnits, Currency: currency, ReceiptRef: receiptRef}
	s.Intents = append(s.Intents, intent)
	return &intent, nil
}

// VerifyConfirmation reports the configured verdict, accepting by default.
func (s *GatewayStub) VerifyConfirmation(confirmation model.PaymentConfirmation) (bool, string) {
	if s.VerifyFn != nil {
		return s.VerifyFn(confirmation)
	}
	return true, confirmation.PaymentID
}

// Money builds a decimal amount from its textual form for test fixtures.
func Money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

var _ usecase.PaymentGateway = (*GatewayStub)(nil)
