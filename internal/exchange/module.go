package exchange

import (
	"context"

	"scalper_bot/internal/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config) *Client {
				c := NewClient()
				c.SetCreds(cfg.BybitAPIKey, cfg.BybitAPISecret)
				return c
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, c *Client, cfg *config.Config, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go c.StreamPrices(ctx, cfg.RotationList)
					return nil
				},
			})
		}),
	)
}
