package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"sinaleiro/internal/modules/binance"
	"sinaleiro/internal/modules/config"
	"sinaleiro/internal/modules/executor"
	"sinaleiro/internal/modules/health"
	"sinaleiro/internal/modules/pipeline"
	"sinaleiro/internal/modules/scheduler"
	telegram "sinaleiro/internal/modules/telegram"

	"sinaleiro/pkg/logger"
	"sinaleiro/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("sinaleiro")
	tracing.SetServiceName("sinaleiro")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		telegram.Module(),
		binance.Module(),
		executor.Module(),
		pipeline.Module(),
		scheduler.Module(),
		health.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

// initTracing is a no-op unless a jaeger agent is configured.
func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		return nil
	}
	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			return nil
		},
	})
	return nil
}
