package binance

import (
	"go.uber.org/fx"

	"sinaleiro/internal/modules/binance/service"
	executor "sinaleiro/internal/modules/executor/service"
)

func Module() fx.Option {
	return fx.Module("binance",
		fx.Provide(
			service.New,

			// Adapter: *service.Client -> executor.Exchange
			func(c *service.Client) executor.Exchange {
				return c
			},
		),
	)
}
