package scheduler

import (
	"context"

	"go.uber.org/fx"

	"sinaleiro/internal/logstore"
	"sinaleiro/internal/modules/config"
	healthsvc "sinaleiro/internal/modules/health/service"
	"sinaleiro/internal/modules/scheduler/service"
)

func Module() fx.Option {
	return fx.Module("scheduler",
		fx.Provide(
			func(cfg *config.Config) *logstore.Marker {
				return logstore.NewMarker(cfg.Log.MarkerPath)
			},
			func() service.Clock {
				return service.SystemClock{}
			},
			func(cfg *config.Config) service.Config {
				return service.Config{
					Times:         cfg.Dispatch.Times,
					PollInterval:  cfg.Dispatch.PollInterval,
					PostSendSleep: cfg.Dispatch.PostSendSleep,
				}
			},
			service.New,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, s *service.Scheduler, state *healthsvc.State) {
				s.OnDispatched(state.MarkDispatch)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go s.Run(appCtx)
						return nil
					},
				})
			},
		),
	)
}
