package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/adapter/payment"
	"github.com/polkiloo/storefront/internal/app"
	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/logger"
	"github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
	"github.com/polkiloo/storefront/internal/server/http/router"
	mongoStorage "github.com/polkiloo/storefront/internal/storage/mongo"
	"github.com/polkiloo/storefront/internal/storage/postgres"
	"github.com/polkiloo/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mongoStorage.Module,
		payment.Module,
		usecase.Module,
		fx.Provide(func(client payment.Client) usecase.PaymentGateway { return client }),
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		fx.Provide(func(s *postgres.Storage, c *mongoStorage.Catalog) *handlers.HealthHandler {
			return handlers.NewHealthHandler(s, c)
		}),
		fx.Provide(middleware.NewMetrics),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
