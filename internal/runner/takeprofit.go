package runner

import (
	"context"
	"sync"
	"time"

	"scalper_bot/internal/helper"
	"scalper_bot/internal/models"
	"scalper_bot/pkg/logger"
)

// TakeProfitExchange is the slice of the exchange the scheduler needs to
// cancel and reissue a resting take-profit.
type TakeProfitExchange interface {
	CancelOrder(ctx context.Context, symbol, orderID string) error
	PlaceTakeProfitOrder(ctx context.Context, symbol string, qty, price float64, side models.PositionSide, positionIdx int, existingOrders []models.OpenOrder) error
}

type tpKey struct {
	symbol string
	side   models.PositionSide
}

type cachedTarget struct {
	target float64
	spread float64
}

// TakeProfitScheduler derives spread-based targets and owns the only code
// path allowed to cancel and reissue an existing take-profit order.
type TakeProfitScheduler struct {
	interval time.Duration // horizon to the next allowed re-quote
	now      func() time.Time

	mu     sync.Mutex
	cached map[tpKey]cachedTarget
}

func NewTakeProfitScheduler(interval time.Duration) *TakeProfitScheduler {
	return &TakeProfitScheduler{
		interval: interval,
		now:      time.Now,
		cached:   make(map[tpKey]cachedTarget),
	}
}

// ComputeTargets maps each side's entry price to a target offset by the
// current 5m spread. A cached target is reused until the spread moves from
// the previous measurement, so targets stay stable inside one spread regime.
// A side with no entry price gets no target.
func (s *TakeProfitScheduler) ComputeTargets(
	symbol string,
	shortEntry, longEntry *float64,
	spread float64,
	prevSpread *float64,
) (shortTarget, longTarget *float64) {
	spreadMoved := prevSpread == nil || *prevSpread != spread

	if shortEntry != nil {
		shortTarget = s.target(tpKey{symbol, models.Short}, *shortEntry*(1-spread), spreadMoved, spread)
	} else {
		s.drop(tpKey{symbol, models.Short})
	}
	if longEntry != nil {
		longTarget = s.target(tpKey{symbol, models.Long}, *longEntry*(1+spread), spreadMoved, spread)
	} else {
		s.drop(tpKey{symbol, models.Long})
	}
	return shortTarget, longTarget
}

func (s *TakeProfitScheduler) target(k tpKey, computed float64, spreadMoved bool, spread float64) *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	// valid only while the spread regime the target was computed under holds
	if c, ok := s.cached[k]; ok && !spreadMoved && c.spread == spread {
		return helper.Ptr(c.target)
	}
	s.cached[k] = cachedTarget{target: computed, spread: spread}
	return helper.Ptr(computed)
}

func (s *TakeProfitScheduler) drop(k tpKey) {
	s.mu.Lock()
	delete(s.cached, k)
	s.mu.Unlock()
}

// RescheduleRequest carries one side's state into MaybeReschedule.
type RescheduleRequest struct {
	Symbol            string
	Side              models.PositionSide
	Qty               float64
	Target            *float64
	CounterTarget     *float64
	EntryPrice        *float64
	CounterEntryPrice *float64
	NextUpdate        time.Time
	Spread            float64
	PrevSpread        *float64
	OpenOrders        []models.OpenOrder
	PositionIdx       int
}

// MaybeReschedule re-quotes the side's take-profit once the wall clock has
// reached NextUpdate and a target exists. When the spread has not moved the
// resting order is left alone. Returns the side's new next-update time,
// always strictly in the future.
func (s *TakeProfitScheduler) MaybeReschedule(ctx context.Context, ex TakeProfitExchange, req RescheduleRequest) (time.Time, error) {
	now := s.now()
	if now.Before(req.NextUpdate) || req.Target == nil || req.Qty <= 0 {
		return req.NextUpdate, nil
	}

	next := now.Add(s.interval)

	if req.PrevSpread != nil && *req.PrevSpread == req.Spread {
		// spread regime unchanged, keep the resting order
		return next, nil
	}

	// cancel the side's existing take-profit orders, then reissue at the target
	remaining := make([]models.OpenOrder, 0, len(req.OpenOrders))
	for _, o := range req.OpenOrders {
		if o.ReduceOnly && o.PositionIdx == req.PositionIdx {
			if err := ex.CancelOrder(ctx, req.Symbol, o.OrderID); err != nil {
				logger.Warn("tp cancel failed for %s/%s: %v", req.Symbol, req.Side, err)
				return next, err
			}
			continue
		}
		remaining = append(remaining, o)
	}

	if err := ex.PlaceTakeProfitOrder(ctx, req.Symbol, req.Qty, *req.Target, req.Side, req.PositionIdx, remaining); err != nil {
		return next, err
	}
	logger.Info("tp requoted %s/%s -> %.6f", req.Symbol, req.Side, *req.Target)
	return next, nil
}

// NextUpdateTime returns the first allowed re-quote time from now.
func (s *TakeProfitScheduler) NextUpdateTime() time.Time {
	return s.now().Add(s.interval)
}
