package models

type PositionSide string

const (
	Long  PositionSide = "long"
	Short PositionSide = "short"
)

// PositionRecord is a raw open-position row as returned by the exchange.
// Numeric fields stay strings until the snapshot builder validates them.
type PositionRecord struct {
	Symbol         string
	Side           string // Buy/Sell
	Size           string
	AvgPrice       string
	UnrealizedPnL  string
	CumRealizedPnL string
}

// PositionSummary is the per-side view rebuilt from PositionRecords every cycle.
// AvgPrice is nil while the side holds no quantity.
type PositionSummary struct {
	Qty            float64
	AvgPrice       *float64
	UnrealizedPnL  float64
	CumRealizedPnL float64
}

type SymbolPositions struct {
	Long  PositionSummary
	Short PositionSummary
}

func (p SymbolPositions) Side(side PositionSide) PositionSummary {
	if side == Short {
		return p.Short
	}
	return p.Long
}

// HasExposure reports whether either side holds quantity.
func (p SymbolPositions) HasExposure() bool {
	return p.Long.Qty > 0 || p.Short.Qty > 0
}
