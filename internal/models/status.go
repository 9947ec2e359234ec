package models

import "time"

// SymbolStatus is the record each symbol loop publishes for the dashboard.
type SymbolStatus struct {
	Symbol        string   `json:"symbol"`
	MinQty        float64  `json:"min_qty"`
	CurrentPrice  *float64 `json:"current_price"`
	Balance       float64  `json:"balance"`
	AvailableBal  float64  `json:"available_bal"`
	Volume        float64  `json:"volume"`
	Spread        float64  `json:"spread"`
	Trend         string   `json:"trend"`
	LongPosQty    float64  `json:"long_pos_qty"`
	ShortPosQty   float64  `json:"short_pos_qty"`
	LongUPnL      float64  `json:"long_upnl"`
	ShortUPnL     float64  `json:"short_upnl"`
	LongCumPnL    float64  `json:"long_cum_pnl"`
	ShortCumPnL   float64  `json:"short_cum_pnl"`
	LongPosPrice  *float64 `json:"long_pos_price"`
	ShortPosPrice *float64 `json:"short_pos_price"`

	UpdatedAt time.Time `json:"updated_at"`
}
