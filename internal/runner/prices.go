package runner

import (
	"sync"

	"scalper_bot/internal/helper"
	"scalper_bot/internal/models"
)

// lastKnownPrices remembers the most recent live best bid/ask per symbol so
// a gap in the orderbook degrades to the previous value instead of zero.
type lastKnownPrices struct {
	mu   sync.Mutex
	bids map[string]float64
	asks map[string]float64
}

func newLastKnownPrices() *lastKnownPrices {
	return &lastKnownPrices{
		bids: make(map[string]float64),
		asks: make(map[string]float64),
	}
}

func (p *lastKnownPrices) setBid(sym string, v float64) {
	p.mu.Lock()
	p.bids[sym] = v
	p.mu.Unlock()
}

func (p *lastKnownPrices) setAsk(sym string, v float64) {
	p.mu.Lock()
	p.asks[sym] = v
	p.mu.Unlock()
}

func (p *lastKnownPrices) bid(sym string) *float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.bids[sym]; ok {
		return helper.Ptr(v)
	}
	return nil
}

func (p *lastKnownPrices) ask(sym string) *float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.asks[sym]; ok {
		return helper.Ptr(v)
	}
	return nil
}

func (p *lastKnownPrices) snapshot(sym string) models.MarketSnapshot {
	return models.MarketSnapshot{BestBid: p.bid(sym), BestAsk: p.ask(sym)}
}
