package pipeline

import (
	"context"

	"go.uber.org/fx"

	"sinaleiro/internal/logstore"
	"sinaleiro/internal/models"
	"sinaleiro/internal/modules/config"
	executorsvc "sinaleiro/internal/modules/executor/service"
	healthsvc "sinaleiro/internal/modules/health/service"
	"sinaleiro/internal/modules/pipeline/service"
	telegramsvc "sinaleiro/internal/modules/telegram/service"
	"sinaleiro/internal/signal"
)

func Module() fx.Option {
	return fx.Module("pipeline",
		fx.Provide(
			func(cfg *config.Config) *logstore.Store {
				return logstore.New(cfg.Log.Dir, cfg.Log.CutoverHour, cfg.Location())
			},
			func(cfg *config.Config) signal.AllowSet {
				return signal.NewAllowSet(cfg.Trading.AllowSymbols)
			},

			// Adapters onto the handler's collaborator interfaces.
			func(t *telegramsvc.Telegram) service.Forwarder {
				return t
			},
			func(e *executorsvc.Executor) service.Enqueuer {
				return e
			},

			func(store *logstore.Store, allow signal.AllowSet, fwd service.Forwarder, exec service.Enqueuer, cfg *config.Config) *service.Handler {
				return service.NewHandler(store, allow, fwd, exec, cfg.Trading.Enabled)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, h *service.Handler, inbound <-chan models.Inbound, state *healthsvc.State) {
				h.OnSignal(state.MarkSignal)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go h.Run(appCtx, inbound)
						state.SetReady(true)
						return nil
					},
					OnStop: func(context.Context) error {
						state.SetReady(false)
						return nil
					},
				})
			},
		),
	)
}
