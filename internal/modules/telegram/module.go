package telegram

import (
	"context"

	"go.uber.org/fx"

	"sinaleiro/internal/models"
	executor "sinaleiro/internal/modules/executor/service"
	scheduler "sinaleiro/internal/modules/scheduler/service"
	"sinaleiro/internal/modules/telegram/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram,

			// Consumers depend on the inbound stream, not the client.
			func(t *service.Telegram) <-chan models.Inbound {
				return t.Inbound()
			},

			// Adapter: *service.Telegram -> executor.Notifier
			func(t *service.Telegram) executor.Notifier {
				return t
			},

			// Adapter: *service.Telegram -> scheduler.Outbound
			func(t *service.Telegram) scheduler.Outbound {
				return t
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						t.Start(appCtx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
