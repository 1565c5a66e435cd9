package executor

import (
	"context"

	"go.uber.org/fx"

	"sinaleiro/internal/modules/config"
	"sinaleiro/internal/modules/executor/service"
	"sinaleiro/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			func(cfg *config.Config) service.Config {
				return service.Config{
					Quantity:       cfg.Trading.Quantity,
					Leverage:       cfg.Trading.Leverage,
					PricePrecision: cfg.Trading.PricePrecision,
					Workers:        cfg.Trading.Workers,
					QueueSize:      cfg.Trading.QueueSize,
				}
			},
			service.New,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, cfg *config.Config, e *service.Executor) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						if !cfg.Trading.Enabled {
							logger.Info("[EXEC] trading disabled, orders will not be placed")
							return nil
						}
						e.Start(appCtx)
						return nil
					},
				})
			},
		),
	)
}
