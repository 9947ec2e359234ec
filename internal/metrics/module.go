package metrics

import (
	"context"

	"scalper_bot/internal/config"
	"scalper_bot/internal/exchange"

	"go.uber.org/fx"
)

// exchangeCandles adapts the exchange kline shape to the band math input.
type exchangeCandles struct {
	ex *exchange.Client
}

func (a exchangeCandles) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	rows, err := a.ex.GetCandles(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Candle, 0, len(rows))
	for _, r := range rows {
		out = append(out, Candle{High: r.High, Low: r.Low, Close: r.Close})
	}
	return out, nil
}

func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			func(cfg *config.Config, ex *exchange.Client) *Client {
				return NewClient(cfg.MetricsBaseURL, exchangeCandles{ex: ex})
			},
		),
	)
}
