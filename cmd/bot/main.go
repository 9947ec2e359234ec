package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"scalper_bot/internal/config"
	"scalper_bot/internal/dashboard"
	"scalper_bot/internal/exchange"
	"scalper_bot/internal/metrics"
	"scalper_bot/internal/notify"
	"scalper_bot/internal/runner"
	"scalper_bot/internal/strategy"
	"scalper_bot/pkg/logger"
	"scalper_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return ctx
			},
		),
		config.Module(),
		exchange.Module(),
		metrics.Module(),
		notify.Module(),
		dashboard.Module(),
		strategy.Module(),
		runner.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if err := logger.Init(cfg.Debug); err != nil {
				return err
			}
			logger.SetServiceName("scalper_bot")
			if cfg.JaegerHost == "" {
				return nil
			}
			_, closer, err := tracing.InitTracer(tracing.Config{Host: cfg.JaegerHost, Port: cfg.JaegerPort})
			if err != nil {
				logger.Warn("tracer init failed, spans disabled: %v", err)
				return nil
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closer()
					return nil
				},
			})
			return nil
		}),
	)
	if err := app.Start(ctx); err != nil {
		log.Fatal(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
	logger.Sync()
}
