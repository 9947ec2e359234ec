package runner

import (
	"testing"

	"scalper_bot/internal/models"
)

func rec(symbol, side, size, avgPrice string) models.PositionRecord {
	return models.PositionRecord{Symbol: symbol, Side: side, Size: size, AvgPrice: avgPrice}
}

func TestBuildPositionDetails_SumsQtyLastPriceWins(t *testing.T) {
	details := BuildPositionDetails([]models.PositionRecord{
		rec("BTCUSDT", "Buy", "0.5", "30000"),
		rec("BTCUSDT", "Buy", "0.25", "31000"),
	})

	d := details["BTCUSDT"]
	if d == nil {
		t.Fatal("no entry for BTCUSDT")
	}
	if got, want := d.Long.Qty, 0.75; got != want {
		t.Errorf("long qty = %v, want %v", got, want)
	}
	if d.Long.AvgPrice == nil || *d.Long.AvgPrice != 31000 {
		t.Errorf("long avg price = %v, want pointer to 31000", d.Long.AvgPrice)
	}
}

func TestBuildPositionDetails_SidesIndependent(t *testing.T) {
	details := BuildPositionDetails([]models.PositionRecord{
		rec("ETHUSDT", "Buy", "1", "2000"),
		rec("ETHUSDT", "Sell", "2", "2100"),
	})

	d := details["ETHUSDT"]
	if d == nil {
		t.Fatal("no entry for ETHUSDT")
	}
	if d.Long.Qty != 1 || d.Short.Qty != 2 {
		t.Errorf("qty = long %v short %v, want 1 and 2", d.Long.Qty, d.Short.Qty)
	}
	if d.Short.AvgPrice == nil || *d.Short.AvgPrice != 2100 {
		t.Errorf("short avg price = %v, want pointer to 2100", d.Short.AvgPrice)
	}
}

func TestBuildPositionDetails_SkipsMalformed(t *testing.T) {
	details := BuildPositionDetails([]models.PositionRecord{
		rec("", "Buy", "1", "100"),
		rec("SOLUSDT", "hold", "1", "100"),
		rec("SOLUSDT", "Buy", "not-a-number", "100"),
		rec("SOLUSDT", "Buy", "-1", "100"),
		rec("SOLUSDT", "Buy", "1", ""),
		rec("SOLUSDT", "Buy", "3", "150"),
	})

	d := details["SOLUSDT"]
	if d == nil {
		t.Fatal("no entry for SOLUSDT")
	}
	if got, want := d.Long.Qty, 3.0; got != want {
		t.Errorf("long qty = %v, want %v (malformed records must be skipped)", got, want)
	}
}

func TestBuildPositionDetails_NormalizesSymbols(t *testing.T) {
	details := BuildPositionDetails([]models.PositionRecord{
		rec("btc/usdt:USDT", "Buy", "1", "100"),
	})
	if details["BTCUSDT"] == nil {
		t.Fatalf("symbols = %v, want normalized BTCUSDT key", keys(details))
	}
}

func keys(m map[string]*models.SymbolPositions) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCanTradeNewSymbol(t *testing.T) {
	open := []string{"A", "B", "C"}

	cases := []struct {
		name       string
		candidate  string
		maxSymbols int
		want       bool
	}{
		{"budget full, new symbol", "D", 3, false},
		{"budget full, already open", "A", 3, true},
		{"budget free, new symbol", "D", 4, true},
		{"zero budget, already open", "B", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTradeNewSymbol(open, tc.maxSymbols, tc.candidate); got != tc.want {
				t.Errorf("CanTradeNewSymbol(%q, max=%d) = %v, want %v", tc.candidate, tc.maxSymbols, got, tc.want)
			}
		})
	}
}

func TestOpenSymbols_OnlyExposed(t *testing.T) {
	details := BuildPositionDetails([]models.PositionRecord{
		rec("BTCUSDT", "Buy", "1", "100"),
		rec("ETHUSDT", "Sell", "0", "200"),
	})
	open := OpenSymbols(details)
	if len(open) != 1 || open[0] != "BTCUSDT" {
		t.Errorf("open symbols = %v, want [BTCUSDT]", open)
	}
}
