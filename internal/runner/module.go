package runner

import (
	"context"

	"scalper_bot/internal/config"
	"scalper_bot/internal/dashboard"
	"scalper_bot/internal/exchange"
	"scalper_bot/internal/metrics"
	"scalper_bot/internal/notify"
	"scalper_bot/internal/strategy"
	"scalper_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewLockRegistry,
			NewEquityCache,
			func(cfg *config.Config) *TakeProfitScheduler {
				return NewTakeProfitScheduler(cfg.TPUpdateInterval)
			},
			func(cfg *config.Config, ex *exchange.Client) *TestOrderInjector {
				if !cfg.TestOrdersEnabled {
					return nil
				}
				return NewTestOrderInjector(ex, cfg.SpoofInterval, cfg.SpoofDuration, cfg.SpoofWallSize)
			},
			func(
				cfg *config.Config,
				ex *exchange.Client,
				mp *metrics.Client,
				s *strategy.ERIScalper,
				locks *LockRegistry,
				equity *EquityCache,
				tp *TakeProfitScheduler,
				injector *TestOrderInjector,
				pub *dashboard.Publisher,
				n notify.Notifier,
			) *Loop {
				return NewLoop(cfg, ex, mp, s, s, locks, equity, tp, injector, pub, n)
			},
			NewManager,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			m *Manager,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go m.Start(ctx)
					logger.Info("symbol dispatcher started")
					return nil
				},
			})
		}),
	)
}
