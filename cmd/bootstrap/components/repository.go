package components

import (
	"pdv-terminal/internal/infra/cache"
	"pdv-terminal/internal/infra/gateway"
	repo_impl "pdv-terminal/internal/infra/repository"
	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/usecase/commands"
	"pdv-terminal/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewProductRepository,
			fx.As(new(queries.ProductRepository)),
		),
		fx.Annotate(
			repo_impl.NewSessionRepository,
			fx.As(new(queries.SessionRepository)),
		),
		fx.Annotate(
			repo_impl.NewOperatorRepository,
			fx.As(new(queries.OperatorReadStore)),
		),
		fx.Annotate(
			repo_impl.NewPromotionRepository,
			fx.As(new(queries.PromotionRepository)),
		),
		fx.Annotate(
			repo_impl.NewPendingOperationRepository,
			fx.As(new(commands.PendingOperationRepository)),
			fx.As(new(commands.PendingOperationQueue)),
		),
		fx.Annotate(
			NewCacheStore,
			fx.As(new(queries.ProductCache)),
			fx.As(new(queries.SessionCache)),
		),
		fx.Annotate(
			NewCatalogGateway,
			fx.As(new(queries.CatalogGateway)),
			fx.As(new(queries.SessionGateway)),
		),
		fx.Annotate(
			NewFiscalGateway,
			fx.As(new(commands.SaleGateway)),
		),
	),
)

// NewCacheStore picks the cache tier: Redis when configured, the in-process
// fallback on single-terminal deployments with REDIS_ADDR unset.
func NewCacheStore(client *redis.Client, cfg config.Config) cache.Store {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache()
	}
	return cache.NewRedisCache(client, cfg.Redis.CacheTTL)
}

func NewCatalogGateway(cfg config.Config) *gateway.CatalogGateway {
	return gateway.NewCatalogGateway(cfg.Catalog)
}

func NewFiscalGateway(cfg config.Config) *gateway.FiscalGateway {
	return gateway.NewFiscalGateway(cfg.Fiscal)
}
