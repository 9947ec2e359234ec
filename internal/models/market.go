package models

import "time"

// MarketSnapshot holds best bid/ask for one cycle. A nil price means no live
// value was seen this cycle and no prior value exists to fall back on; trading
// decisions that need the price must skip.
type MarketSnapshot struct {
	BestBid *float64
	BestAsk *float64
}

// Orderbook levels come back as [price, qty] pairs, best first.
type Orderbook struct {
	Bids [][2]float64
	Asks [][2]float64
}

// MetricsSnapshot is the per-cycle read from the market-metrics API.
// Consumed once per iteration, never cached.
type MetricsSnapshot struct {
	Volume1m    float64
	Volume5m    float64
	Spread1m    float64
	Spread5m    float64
	Trend       string // long / short / neutral
	Signal      string // long / short / neutral
	FundingRate float64
	HMATrend    string
	ERITrend    string // bullish / bearish / neutral
}

// MovingAverages are the MA bands the entry conditions compare against.
type MovingAverages struct {
	MA3High   float64
	MA3Low    float64
	MA6High   float64
	MA6Low    float64
	MA1m3High float64
	MA5m3High float64
}

type OpenOrder struct {
	OrderID     string
	Symbol      string
	Side        string // Buy / Sell
	Price       float64
	Qty         float64
	ReduceOnly  bool
	PositionIdx int // 1 long, 2 short (hedge mode)
}

type TPOrderCounts struct {
	Long  int
	Short int
}

type Trade struct {
	Timestamp time.Time
	Price     float64
	Qty       float64
}
