package strategy

import (
	"context"

	"scalper_bot/internal/models"
)

// EntryInputs is the full computed state the managing branch hands to the
// entry/exit evaluator each iteration.
type EntryInputs struct {
	OpenOrders []models.OpenOrder

	Trend    string
	Signal   string
	ERITrend string

	Volume5m    float64
	Spread5m    float64
	MinVolume   float64
	MinDistance float64

	LongAmount  float64
	ShortAmount float64

	LongQty    float64
	ShortQty   float64
	LongPrice  *float64
	ShortPrice *float64

	ShouldLong     bool
	ShouldShort    bool
	ShouldAddLong  bool
	ShouldAddShort bool

	HedgeRatio              float64
	HedgePriceDiffThreshold float64

	BestBid float64
	BestAsk float64
}

// InitialEntryInputs is the reduced set for symbols with no position yet.
type InitialEntryInputs struct {
	OpenOrders []models.OpenOrder

	Trend    string
	Signal   string
	HMATrend string
	ERITrend string

	Volume5m    float64
	Spread5m    float64
	MinVolume   float64
	MinDistance float64

	LongAmount  float64
	ShortAmount float64

	ShouldLong  bool
	ShouldShort bool

	BestBid float64
	BestAsk float64
}

type EntryExitEvaluator interface {
	Evaluate(ctx context.Context, symbol string, in EntryInputs) error
}

type InitialEntryEvaluator interface {
	EvaluateInitial(ctx context.Context, symbol string, in InitialEntryInputs) error
}
