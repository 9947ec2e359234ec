package strategy

import (
	"context"
	"math"

	"scalper_bot/internal/models"
	"scalper_bot/pkg/logger"
)

// OrderPlacer is the slice of the exchange client the evaluators need.
type OrderPlacer interface {
	PlaceLimitOrder(ctx context.Context, symbol, side string, qty, price float64, positionIdx int, postOnly bool) (string, error)
}

// ERIScalper is the default evaluator: entries when trend, signal and ERI
// agree, add-to-position on the caller's precomputed MA-band flags, and a
// hedge order on the counter side when price has run away from the entry.
type ERIScalper struct {
	orders OrderPlacer
}

func NewERIScalper(orders OrderPlacer) *ERIScalper {
	return &ERIScalper{orders: orders}
}

func (e *ERIScalper) Evaluate(ctx context.Context, symbol string, in EntryInputs) error {
	if !marketActive(in.Volume5m, in.Spread5m, in.MinVolume, in.MinDistance) {
		return nil
	}
	if in.BestBid <= 0 || in.BestAsk <= 0 {
		return nil
	}

	longEntryOpen := hasEntryOrder(in.OpenOrders, 1)
	shortEntryOpen := hasEntryOrder(in.OpenOrders, 2)

	// fresh entries
	if in.LongQty == 0 && !longEntryOpen && wantsLong(in.Trend, in.Signal, in.ERITrend) && in.ShouldLong && in.LongAmount > 0 {
		if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Buy", in.LongAmount, in.BestBid, 1, true); err != nil {
			return err
		}
		logger.Info("entry long %s qty=%.6f px=%.6f", symbol, in.LongAmount, in.BestBid)
		longEntryOpen = true
	}
	if in.ShortQty == 0 && !shortEntryOpen && wantsShort(in.Trend, in.Signal, in.ERITrend) && in.ShouldShort && in.ShortAmount > 0 {
		if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Sell", in.ShortAmount, in.BestAsk, 2, true); err != nil {
			return err
		}
		logger.Info("entry short %s qty=%.6f px=%.6f", symbol, in.ShortAmount, in.BestAsk)
		shortEntryOpen = true
	}

	// add-to-position, gated by the wider band condition computed upstream
	if in.LongQty > 0 && !longEntryOpen && in.ShouldAddLong && wantsLong(in.Trend, in.Signal, in.ERITrend) && in.LongAmount > 0 {
		if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Buy", in.LongAmount, in.BestBid, 1, true); err != nil {
			return err
		}
		logger.Info("add long %s qty=%.6f px=%.6f", symbol, in.LongAmount, in.BestBid)
	}
	if in.ShortQty > 0 && !shortEntryOpen && in.ShouldAddShort && wantsShort(in.Trend, in.Signal, in.ERITrend) && in.ShortAmount > 0 {
		if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Sell", in.ShortAmount, in.BestAsk, 2, true); err != nil {
			return err
		}
		logger.Info("add short %s qty=%.6f px=%.6f", symbol, in.ShortAmount, in.BestAsk)
	}

	return e.maybeHedge(ctx, symbol, in, longEntryOpen, shortEntryOpen)
}

// maybeHedge opens counter-side exposure once price has moved more than the
// configured threshold away from the entry, sized by the hedge ratio.
func (e *ERIScalper) maybeHedge(ctx context.Context, symbol string, in EntryInputs, longEntryOpen, shortEntryOpen bool) error {
	if in.HedgeRatio <= 0 || in.HedgePriceDiffThreshold <= 0 {
		return nil
	}

	if in.LongQty > 0 && in.ShortQty == 0 && !shortEntryOpen && in.LongPrice != nil {
		diff := math.Abs(in.BestAsk-*in.LongPrice) / *in.LongPrice
		if diff > in.HedgePriceDiffThreshold {
			qty := in.LongQty * in.HedgeRatio
			if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Sell", qty, in.BestAsk, 2, true); err != nil {
				return err
			}
			logger.Info("hedge short %s qty=%.6f px=%.6f diff=%.4f", symbol, qty, in.BestAsk, diff)
		}
	}
	if in.ShortQty > 0 && in.LongQty == 0 && !longEntryOpen && in.ShortPrice != nil {
		diff := math.Abs(*in.ShortPrice-in.BestBid) / *in.ShortPrice
		if diff > in.HedgePriceDiffThreshold {
			qty := in.ShortQty * in.HedgeRatio
			if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Buy", qty, in.BestBid, 1, true); err != nil {
				return err
			}
			logger.Info("hedge long %s qty=%.6f px=%.6f diff=%.4f", symbol, qty, in.BestBid, diff)
		}
	}
	return nil
}

func (e *ERIScalper) EvaluateInitial(ctx context.Context, symbol string, in InitialEntryInputs) error {
	if !marketActive(in.Volume5m, in.Spread5m, in.MinVolume, in.MinDistance) {
		return nil
	}
	if in.BestBid <= 0 || in.BestAsk <= 0 {
		return nil
	}

	if !hasEntryOrder(in.OpenOrders, 1) && wantsLong(in.Trend, in.Signal, in.ERITrend) && in.ShouldLong && in.LongAmount > 0 {
		if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Buy", in.LongAmount, in.BestBid, 1, true); err != nil {
			return err
		}
		logger.Info("initial entry long %s qty=%.6f px=%.6f", symbol, in.LongAmount, in.BestBid)
	}
	if !hasEntryOrder(in.OpenOrders, 2) && wantsShort(in.Trend, in.Signal, in.ERITrend) && in.ShouldShort && in.ShortAmount > 0 {
		if _, err := e.orders.PlaceLimitOrder(ctx, symbol, "Sell", in.ShortAmount, in.BestAsk, 2, true); err != nil {
			return err
		}
		logger.Info("initial entry short %s qty=%.6f px=%.6f", symbol, in.ShortAmount, in.BestAsk)
	}
	return nil
}

func marketActive(vol5m, spread5m, minVol, minDist float64) bool {
	return vol5m >= minVol && spread5m >= minDist
}

func wantsLong(trend, signal, eri string) bool {
	if trend != "long" || signal != "long" {
		return false
	}
	return eri != "bearish"
}

func wantsShort(trend, signal, eri string) bool {
	if trend != "short" || signal != "short" {
		return false
	}
	return eri != "bullish"
}

// hasEntryOrder reports whether a non-reduce-only order already rests on the
// given position index.
func hasEntryOrder(orders []models.OpenOrder, positionIdx int) bool {
	for _, o := range orders {
		if !o.ReduceOnly && o.PositionIdx == positionIdx {
			return true
		}
	}
	return false
}
