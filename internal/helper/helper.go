package helper

import (
	"math"
	"strings"
)

// NormalizeSymbol standardizes an instrument identifier: uppercase, the
// contract suffix after ':' stripped, slashes removed ("btc/usdt:USDT" -> "BTCUSDT").
func NormalizeSymbol(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "/", "")
}

func RoundDownToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	steps := math.Floor(px/tick + 1e-12)
	return steps * tick
}

func RoundUpToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	steps := math.Ceil(px/tick - 1e-12)
	return steps * tick
}

// Ptr returns a pointer to v. Used for optional price fields.
func Ptr(v float64) *float64 { return &v }
