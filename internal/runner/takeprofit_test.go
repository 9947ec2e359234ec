package runner

import (
	"context"
	"testing"
	"time"

	"scalper_bot/internal/helper"
	"scalper_bot/internal/models"
)

type fakeTPExchange struct {
	cancelled []string
	placed    []placedTP
}

type placedTP struct {
	symbol      string
	qty, price  float64
	side        models.PositionSide
	positionIdx int
	existing    int
}

func (f *fakeTPExchange) CancelOrder(_ context.Context, _ string, orderID string) error {
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func (f *fakeTPExchange) PlaceTakeProfitOrder(_ context.Context, symbol string, qty, price float64, side models.PositionSide, positionIdx int, existing []models.OpenOrder) error {
	f.placed = append(f.placed, placedTP{symbol, qty, price, side, positionIdx, len(existing)})
	return nil
}

func newTestScheduler(interval time.Duration, now time.Time) *TakeProfitScheduler {
	s := NewTakeProfitScheduler(interval)
	s.now = func() time.Time { return now }
	return s
}

func TestComputeTargets_SpreadBased(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)

	shortTP, longTP := s.ComputeTargets("BTCUSDT", helper.Ptr(30000), helper.Ptr(29000), 0.01, nil)
	if shortTP == nil || *shortTP != 30000*0.99 {
		t.Errorf("short target = %v, want 29700", shortTP)
	}
	if longTP == nil || *longTP != 29000*1.01 {
		t.Errorf("long target = %v, want 29290", longTP)
	}
}

func TestComputeTargets_CachedUntilSpreadMoves(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)

	first, _ := s.ComputeTargets("BTCUSDT", helper.Ptr(30000), nil, 0.01, nil)

	// same spread, new entry price: cached target survives
	second, _ := s.ComputeTargets("BTCUSDT", helper.Ptr(31000), nil, 0.01, helper.Ptr(0.01))
	if second == nil || *second != *first {
		t.Errorf("target with unchanged spread = %v, want cached %v", second, *first)
	}

	// spread moved: recomputed from the current entry
	third, _ := s.ComputeTargets("BTCUSDT", helper.Ptr(31000), nil, 0.02, helper.Ptr(0.01))
	if third == nil || *third != 31000*0.98 {
		t.Errorf("target after spread move = %v, want 30380", third)
	}
}

func TestComputeTargets_DroppedWithoutEntry(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)

	s.ComputeTargets("BTCUSDT", helper.Ptr(30000), nil, 0.01, nil)
	shortTP, longTP := s.ComputeTargets("BTCUSDT", nil, nil, 0.01, helper.Ptr(0.01))
	if shortTP != nil || longTP != nil {
		t.Errorf("targets = (%v, %v), want both absent once the position is gone", shortTP, longTP)
	}
}

func TestRoundTarget(t *testing.T) {
	// the long side closes with a sell: round up; the short with a buy: down
	if got := roundTarget(models.Long, helper.Ptr(101.3), 0.25); got == nil || *got != 101.5 {
		t.Errorf("long target = %v, want 101.5", got)
	}
	if got := roundTarget(models.Short, helper.Ptr(98.7), 0.25); got == nil || *got != 98.5 {
		t.Errorf("short target = %v, want 98.5", got)
	}
	if got := roundTarget(models.Long, helper.Ptr(101.3), 0); got == nil || *got != 101.3 {
		t.Errorf("zero tick = %v, want pass-through 101.3", got)
	}
	if got := roundTarget(models.Long, nil, 0.25); got != nil {
		t.Errorf("nil target = %v, want nil", got)
	}
}

func TestMaybeReschedule_NoopBeforeNextUpdate(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)
	ex := &fakeTPExchange{}

	nextUpdate := now.Add(time.Minute)
	got, err := s.MaybeReschedule(context.Background(), ex, RescheduleRequest{
		Symbol:      "BTCUSDT",
		Side:        models.Long,
		Qty:         1,
		Target:      helper.Ptr(29290),
		NextUpdate:  nextUpdate,
		Spread:      0.01,
		PositionIdx: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(nextUpdate) {
		t.Errorf("next update = %v, want unchanged %v", got, nextUpdate)
	}
	if len(ex.cancelled)+len(ex.placed) != 0 {
		t.Error("exchange touched before the scheduled update time")
	}
}

func TestMaybeReschedule_SpreadUnchangedKeepsOrder(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)
	ex := &fakeTPExchange{}

	got, err := s.MaybeReschedule(context.Background(), ex, RescheduleRequest{
		Symbol:      "BTCUSDT",
		Side:        models.Long,
		Qty:         1,
		Target:      helper.Ptr(29290),
		NextUpdate:  now.Add(-time.Second),
		Spread:      0.01,
		PrevSpread:  helper.Ptr(0.01),
		PositionIdx: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(3 * time.Minute); !got.Equal(want) {
		t.Errorf("next update = %v, want %v", got, want)
	}
	if len(ex.cancelled)+len(ex.placed) != 0 {
		t.Error("resting order disturbed although the spread did not move")
	}
}

func TestMaybeReschedule_RequotesOwnSideOnly(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)
	ex := &fakeTPExchange{}

	orders := []models.OpenOrder{
		{OrderID: "tp-long", ReduceOnly: true, PositionIdx: 1},
		{OrderID: "tp-short", ReduceOnly: true, PositionIdx: 2},
		{OrderID: "entry", ReduceOnly: false, PositionIdx: 1},
	}
	got, err := s.MaybeReschedule(context.Background(), ex, RescheduleRequest{
		Symbol:      "BTCUSDT",
		Side:        models.Long,
		Qty:         1.5,
		Target:      helper.Ptr(29290),
		NextUpdate:  now.Add(-time.Second),
		Spread:      0.02,
		PrevSpread:  helper.Ptr(0.01),
		OpenOrders:  orders,
		PositionIdx: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(3 * time.Minute); !got.Equal(want) {
		t.Errorf("next update = %v, want %v", got, want)
	}
	if len(ex.cancelled) != 1 || ex.cancelled[0] != "tp-long" {
		t.Errorf("cancelled = %v, want only tp-long", ex.cancelled)
	}
	if len(ex.placed) != 1 {
		t.Fatalf("placed = %d orders, want exactly 1", len(ex.placed))
	}
	p := ex.placed[0]
	if p.qty != 1.5 || p.price != 29290 || p.side != models.Long || p.positionIdx != 1 {
		t.Errorf("placed order = %+v", p)
	}
	if p.existing != 2 {
		t.Errorf("remaining orders passed through = %d, want 2 (short tp and entry)", p.existing)
	}
}

func TestMaybeReschedule_NoTargetNoQty(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(3*time.Minute, now)
	ex := &fakeTPExchange{}

	nextUpdate := now.Add(-time.Second)
	for _, req := range []RescheduleRequest{
		{Symbol: "BTCUSDT", Side: models.Long, Qty: 1, NextUpdate: nextUpdate, PositionIdx: 1},
		{Symbol: "BTCUSDT", Side: models.Long, Qty: 0, Target: helper.Ptr(100), NextUpdate: nextUpdate, PositionIdx: 1},
	} {
		got, err := s.MaybeReschedule(context.Background(), ex, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(nextUpdate) {
			t.Errorf("next update = %v, want unchanged %v", got, nextUpdate)
		}
	}
	if len(ex.cancelled)+len(ex.placed) != 0 {
		t.Error("exchange touched without a target and quantity")
	}
}
