package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewCatalogUseCase,
	newPaymentUseCase,
)

type paymentParams struct {
	fx.In

	Orders  repository.OrderRepository
	Gateway PaymentGateway
	Config  *config.Config
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Gateway, p.Config.Currency)
}
