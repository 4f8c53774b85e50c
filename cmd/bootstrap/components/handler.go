package components

import (
	"pdv-terminal/internal/handler"
	"pdv-terminal/internal/handler/api"
	"pdv-terminal/internal/handler/middleware"
	"pdv-terminal/internal/pkg/metrics"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		metrics.NewTerminalMetrics,
		api.NewAuthHandler,
		api.NewCartHandler,
		api.NewCheckoutHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
