package components

import (
	"pdv-terminal/internal/pkg/clock"
	"pdv-terminal/internal/pkg/config"
	"pdv-terminal/internal/usecase"
	"pdv-terminal/internal/usecase/commands"
	"pdv-terminal/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	usecase.NewCartRegistry,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewProductQueries,
		queries.NewSessionQueries,
		queries.NewPromotionQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCartCommands,
		commands.NewCheckoutCommands,
		commands.NewSyncCommands,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewProductQueries(
	cache queries.ProductCache,
	repo queries.ProductRepository,
	gw queries.CatalogGateway,
	cfg config.Config,
) queries.ProductQueries {
	return queries.NewProductQueries(cache, repo, gw, cfg.Catalog.FetchLimit)
}
