package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// PaymentGateway is the slice of the gateway adapter the workflow needs.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receiptRef string) (*model.PaymentIntent, error)
	VerifyConfirmation(confirmation model.PaymentConfirmation) (valid bool, transactionRef string)
}

// PaymentUseCase drives an order through the payment workflow:
// intent creation against the processor, then validation of the signed
// confirmation the client brings back.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	gateway  PaymentGateway
	currency string
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, gateway PaymentGateway, currency string) *PaymentUseCase {
	return &PaymentUseCase{orders: orders, gateway: gateway, currency: currency}
}

// RequestIntent registers a checkout attempt for the order with the
// processor. It mutates nothing locally; a lost response leaves the order
// untouched and the client simply requests a fresh intent.
func (u *PaymentUseCase) RequestIntent(ctx context.Context, orderID, userID int64, admin bool) (*model.PaymentIntent, error) {
	order, err := u.visibleOrder(ctx, orderID, userID, admin)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return nil, domainErrors.ErrAlreadyPaid
	}

	receipt := fmt.Sprintf("order-%d-%s", order.ID, uuid.NewString()[:8])
	return u.gateway.CreateIntent(ctx, minorUnits(order.TotalPrice), u.currency, receipt)
}

// Confirm validates the gateway confirmation and, when the signature
// checks out, marks the order paid exactly once. A duplicate confirmation
// of an already-paid order is a no-op returning the stored order; paidAt
// and the transaction reference are never overwritten.
func (u *PaymentUseCase) Confirm(ctx context.Context, orderID, userID int64, admin bool, confirmation model.PaymentConfirmation) (*model.Order, error) {
	if _, err := u.visibleOrder(ctx, orderID, userID, admin); err != nil {
		return nil, err
	}

	valid, transactionRef := u.gateway.VerifyConfirmation(confirmation)
	if !valid {
		return nil, domainErrors.ErrSignatureMismatch
	}

	order, err := u.orders.MarkPaid(ctx, orderID, transactionRef)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyPaid) {
			return u.orders.GetByID(ctx, orderID)
		}
		return nil, err
	}
	return order, nil
}

func (u *PaymentUseCase) visibleOrder(ctx context.Context, orderID, userID int64, admin bool) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// minorUnits converts a two-decimal price into gateway minor units.
func minorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
