package bootstrap

import (
	"pdv-terminal/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.TerminalConfig { return cfg.Terminal },
	),
)
