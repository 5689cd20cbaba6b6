package mongo

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// Module wires the Mongo-backed catalog and its repository adapter.
var Module = fx.Options(
	fx.Provide(newCatalog),
	fx.Provide(func(c *Catalog) repository.ProductRepository { return c.Products() }),
	fx.Invoke(registerLifecycle),
)

type catalogParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newCatalog(p catalogParams) (*Catalog, error) {
	return New(p.Ctx, p.Config.MongoURI, p.Config.MongoDatabase, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, catalog *Catalog) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return catalog.Close(ctx)
		},
	})
}
