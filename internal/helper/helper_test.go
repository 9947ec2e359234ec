package helper

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"btcusdt", "BTCUSDT"},
		{"BTC/USDT", "BTCUSDT"},
		{"btc/usdt:USDT", "BTCUSDT"},
		{" ethusdt ", "ETHUSDT"},
		{"DOGEUSDT", "DOGEUSDT"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSymbol(tc.in); got != tc.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundToTick(t *testing.T) {
	if got := RoundDownToTick(100.37, 0.25); got != 100.25 {
		t.Errorf("RoundDownToTick = %v, want 100.25", got)
	}
	if got := RoundUpToTick(100.37, 0.25); got != 100.5 {
		t.Errorf("RoundUpToTick = %v, want 100.5", got)
	}
	// exact multiples stay put
	if got := RoundDownToTick(100.25, 0.25); got != 100.25 {
		t.Errorf("RoundDownToTick on boundary = %v, want 100.25", got)
	}
	// zero tick is a pass-through
	if got := RoundDownToTick(100.37, 0); got != 100.37 {
		t.Errorf("RoundDownToTick with zero tick = %v, want 100.37", got)
	}
}
