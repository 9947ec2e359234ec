package metrics

import (
	"context"
	"errors"
	"testing"
)

func sampleRaw() RawMarketData {
	return RawMarketData{Assets: []assetRow{
		{Symbol: "BTCUSDT", Vol1m: 5000, Vol5m: 20000, Spread1m: 0.001, Spread5m: 0.004, Trend: "long", MFI: "long", Funding: 0.0001, HMATrend: "long", ERITrend: "bullish"},
		{Symbol: "ETHUSDT", Vol5m: 9000, Trend: "short"},
	}}
}

func TestExtractMetrics(t *testing.T) {
	c := NewClient("http://metrics", nil)

	m, err := c.ExtractMetrics(sampleRaw(), "BTCUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Volume5m != 20000 || m.Spread5m != 0.004 {
		t.Errorf("volume/spread = %v/%v, want 20000/0.004", m.Volume5m, m.Spread5m)
	}
	if m.Trend != "long" || m.Signal != "long" || m.ERITrend != "bullish" {
		t.Errorf("trend fields = %q/%q/%q", m.Trend, m.Signal, m.ERITrend)
	}
}

func TestExtractMetrics_NormalizesLookup(t *testing.T) {
	c := NewClient("http://metrics", nil)

	if _, err := c.ExtractMetrics(sampleRaw(), "btc/usdt:USDT"); err != nil {
		t.Errorf("normalized lookup failed: %v", err)
	}
}

func TestExtractMetrics_MissingSymbol(t *testing.T) {
	c := NewClient("http://metrics", nil)

	if _, err := c.ExtractMetrics(sampleRaw(), "SOLUSDT"); err == nil {
		t.Error("want an error for an unknown symbol")
	}
}

type staticCandles struct {
	m1, m5 []Candle
	err    error
}

func (s staticCandles) GetCandles(_ context.Context, _ string, interval string, _ int) ([]Candle, error) {
	if s.err != nil {
		return nil, s.err
	}
	if interval == "5" {
		return s.m5, nil
	}
	return s.m1, nil
}

func flatCandles(n int, high, low float64) []Candle {
	out := make([]Candle, n)
	for i := range out {
		out[i] = Candle{High: high, Low: low, Close: (high + low) / 2}
	}
	return out
}

func TestGetMovingAverages(t *testing.T) {
	c := NewClient("http://metrics", staticCandles{
		m1: flatCandles(30, 110, 90),
		m5: flatCandles(30, 120, 80),
	})

	ma, err := c.GetMovingAverages(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ma.MA3High != 110 || ma.MA3Low != 90 || ma.MA6High != 110 || ma.MA6Low != 90 {
		t.Errorf("1m bands = %+v, want flat 110/90", ma)
	}
	if ma.MA5m3High != 120 {
		t.Errorf("5m band = %v, want 120", ma.MA5m3High)
	}
}

func TestGetMovingAverages_NotEnoughData(t *testing.T) {
	c := NewClient("http://metrics", staticCandles{
		m1: flatCandles(2, 110, 90),
		m5: flatCandles(30, 120, 80),
	})
	if _, err := c.GetMovingAverages(context.Background(), "BTCUSDT"); err == nil {
		t.Error("want an error with too few candles")
	}
}

func TestGetMovingAverages_ProviderError(t *testing.T) {
	boom := errors.New("kline down")
	c := NewClient("http://metrics", staticCandles{err: boom})
	if _, err := c.GetMovingAverages(context.Background(), "BTCUSDT"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped provider error", err)
	}
}
