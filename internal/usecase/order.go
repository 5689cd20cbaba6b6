package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// OrderItemInput is one line of a checkout request.
type OrderItemInput struct {
	ProductRef string
	Name       string
	Image      string
	Qty        int
	UnitPrice  decimal.Decimal
}

// CreateOrderInput carries everything needed to snapshot an order.
// The items price and total are recomputed server-side; client-submitted
// totals are never trusted.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Create validates and persists a new order. The price breakdown is
// computed here, once, so totalPrice always equals
// itemsPrice + shippingPrice + taxPrice in the stored record.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, input CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domainErrors.ErrValidation)
	}
	if input.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", domainErrors.ErrValidation)
	}
	if input.ShippingPrice.IsNegative() || input.TaxPrice.IsNegative() {
		return nil, fmt.Errorf("%w: negative price", domainErrors.ErrValidation)
	}

	itemsPrice := decimal.Zero
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for %q", domainErrors.ErrValidation, item.Name)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: negative price for %q", domainErrors.ErrValidation, item.Name)
		}
		itemsPrice = itemsPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty))))
		items = append(items, model.OrderItem{
			ProductRef: item.ProductRef,
			Name:       item.Name,
			Image:      item.Image,
			Qty:        item.Qty,
			UnitPrice:  item.UnitPrice,
		})
	}

	order := &model.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   input.ShippingPrice,
		TaxPrice:        input.TaxPrice,
		TotalPrice:      itemsPrice.Add(input.ShippingPrice).Add(input.TaxPrice),
	}

	return u.orders.Create(ctx, order)
}

// Get returns an order visible to the requester. Non-admins only see
// their own orders.
func (u *OrderUseCase) Get(ctx context.Context, orderID, userID int64, admin bool) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// ListMine returns one page of the requester's orders, newest first.
func (u *OrderUseCase) ListMine(ctx context.Context, userID int64, page, pageSize int) ([]model.Order, error) {
	limit, offset := pageWindow(page, pageSize)
	return u.orders.ListByUser(ctx, userID, limit, offset)
}

// ListAll returns one page over every order plus the total count.
func (u *OrderUseCase) ListAll(ctx context.Context, page, pageSize int) ([]model.Order, int64, error) {
	limit, offset := pageWindow(page, pageSize)
	return u.orders.ListAll(ctx, limit, offset)
}

// MarkDelivered flips the delivery flag. Only paid orders qualify; the
// admin capability is enforced at the transport layer.
func (u *OrderUseCase) MarkDelivered(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.MarkDelivered(ctx, orderID)
}

func pageWindow(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
