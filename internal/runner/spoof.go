package runner

import (
	"context"
	"time"

	"scalper_bot/internal/models"
	"scalper_bot/pkg/logger"
)

// InjectorExchange is the exchange slice the test-order injector needs.
type InjectorExchange interface {
	GetOrderbook(ctx context.Context, symbol string) (models.Orderbook, error)
	PlaceLimitOrder(ctx context.Context, symbol, side string, qty, price float64, positionIdx int, postOnly bool) (string, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
}

// TestOrderInjector periodically rests a small order wall on both sides for
// latency probing and withdraws it shortly after. Best-effort: failures are
// logged and never reach the main cycle.
type TestOrderInjector struct {
	ex       InjectorExchange
	interval time.Duration
	duration time.Duration
	wallSize int
}

func NewTestOrderInjector(ex InjectorExchange, interval, duration time.Duration, wallSize int) *TestOrderInjector {
	if wallSize <= 0 {
		wallSize = 5
	}
	return &TestOrderInjector{ex: ex, interval: interval, duration: duration, wallSize: wallSize}
}

// MaybeInject fires when interval has elapsed since lastInjection and returns
// the new last-injection time; otherwise returns lastInjection unchanged.
func (t *TestOrderInjector) MaybeInject(ctx context.Context, symbol string, shortAmount, longAmount float64, now, lastInjection time.Time) time.Time {
	if now.Sub(lastInjection) < t.interval {
		return lastInjection
	}

	ob, err := t.ex.GetOrderbook(ctx, symbol)
	if err != nil || len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		logger.Warn("test orders skipped for %s: no orderbook", symbol)
		return now
	}
	bestBid, bestAsk := ob.Bids[0][0], ob.Asks[0][0]

	placed := make([]string, 0, 2*t.wallSize)
	for i := 0; i < t.wallSize; i++ {
		step := float64(i+1) * 0.0001
		if longAmount > 0 {
			if id, err := t.ex.PlaceLimitOrder(ctx, symbol, "Buy", longAmount, bestBid*(1-step), 1, true); err == nil {
				placed = append(placed, id)
			}
		}
		if shortAmount > 0 {
			if id, err := t.ex.PlaceLimitOrder(ctx, symbol, "Sell", shortAmount, bestAsk*(1+step), 2, true); err == nil {
				placed = append(placed, id)
			}
		}
	}
	if len(placed) == 0 {
		return now
	}
	logger.Debug("test wall placed for %s: %d orders", symbol, len(placed))

	// withdraw off the main cycle once the wall has rested long enough; the
	// cancel pass must outlive a loop shutdown or the wall stays resting
	cancelCtx := context.WithoutCancel(ctx)
	go func(ids []string) {
		timer := time.NewTimer(t.duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		for _, id := range ids {
			if err := t.ex.CancelOrder(cancelCtx, symbol, id); err != nil {
				logger.Warn("test order cancel failed for %s: %v", symbol, err)
			}
		}
	}(placed)

	return now
}
