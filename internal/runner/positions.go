package runner

import (
	"strconv"
	"strings"

	"scalper_bot/internal/helper"
	"scalper_bot/internal/models"
	"scalper_bot/pkg/logger"
)

// BuildPositionDetails folds raw open-position records into per-symbol,
// per-side summaries. Quantities for the same (symbol, side) sum; the average
// price is last-write-wins, intentionally not volume-weighted. Records missing
// required fields are skipped with a warning. Pure function of its input.
func BuildPositionDetails(records []models.PositionRecord) map[string]*models.SymbolPositions {
	details := make(map[string]*models.SymbolPositions)

	for _, rec := range records {
		symbol := helper.NormalizeSymbol(rec.Symbol)
		side := strings.ToLower(rec.Side)
		if symbol == "" || (side != "buy" && side != "sell") {
			logger.Warn("position record missing symbol or side, skipped: %+v", rec)
			continue
		}
		size, err := strconv.ParseFloat(rec.Size, 64)
		if err != nil || size < 0 {
			logger.Warn("position record for %s has bad size %q, skipped", symbol, rec.Size)
			continue
		}
		avgPrice, err := strconv.ParseFloat(rec.AvgPrice, 64)
		if err != nil {
			logger.Warn("position record for %s has bad avgPrice %q, skipped", symbol, rec.AvgPrice)
			continue
		}

		// PnL fields are informational, parse best-effort
		upnl, _ := strconv.ParseFloat(rec.UnrealizedPnL, 64)
		cum, _ := strconv.ParseFloat(rec.CumRealizedPnL, 64)

		d, ok := details[symbol]
		if !ok {
			d = &models.SymbolPositions{}
			details[symbol] = d
		}

		if side == "buy" {
			d.Long.Qty += size
			d.Long.AvgPrice = helper.Ptr(avgPrice)
			d.Long.UnrealizedPnL += upnl
			d.Long.CumRealizedPnL += cum
		} else {
			d.Short.Qty += size
			d.Short.AvgPrice = helper.Ptr(avgPrice)
			d.Short.UnrealizedPnL += upnl
			d.Short.CumRealizedPnL += cum
		}
	}
	return details
}

// OpenSymbols lists the symbols with any exposure, normalized.
func OpenSymbols(details map[string]*models.SymbolPositions) []string {
	out := make([]string, 0, len(details))
	for sym, d := range details {
		if d.HasExposure() {
			out = append(out, sym)
		}
	}
	return out
}

// CanTradeNewSymbol is the eligibility rule: a symbol already holding exposure
// is always eligible; otherwise the open-symbol count must be under budget.
func CanTradeNewSymbol(openSymbols []string, maxSymbols int, candidate string) bool {
	for _, s := range openSymbols {
		if s == candidate {
			return true
		}
	}
	return len(openSymbols) < maxSymbols
}
