package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"scalper_bot/internal/helper"
	"scalper_bot/internal/models"

	"github.com/bytedance/sonic"
)

// RawMarketData is the undecoded metrics API payload for one symbol.
type RawMarketData struct {
	Assets []assetRow `json:"data"`
}

type assetRow struct {
	Symbol    string  `json:"Assets"`
	Vol1m     float64 `json:"1mVol"`
	Vol5m     float64 `json:"5mVol"`
	Spread1m  float64 `json:"1mSpread"`
	Spread5m  float64 `json:"5mSpread"`
	Trend     string  `json:"Trend"`
	MFI       string  `json:"MFI"`
	Funding   float64 `json:"Funding"`
	HMATrend  string  `json:"HMA Trend"`
	ERITrend  string  `json:"ERI Trend"`
}

// Client talks to the market-metrics API and derives MA bands from klines.
type Client struct {
	http    *http.Client
	baseURL string
	candles candleProvider
}

type candleProvider interface {
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}

// Candle mirrors the exchange kline row the band math needs.
type Candle struct {
	High  float64
	Low   float64
	Close float64
}

func NewClient(baseURL string, candles candleProvider) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		candles: candles,
	}
}

// GetMarketData fetches the raw metrics payload for a symbol.
func (c *Client) GetMarketData(ctx context.Context, symbol string) (RawMarketData, error) {
	u := fmt.Sprintf("%s?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return RawMarketData{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return RawMarketData{}, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return RawMarketData{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}

	var raw RawMarketData
	if err := sonic.Unmarshal(rb, &raw); err != nil {
		return RawMarketData{}, fmt.Errorf("decode market data: %w", err)
	}
	return raw, nil
}

// ExtractMetrics picks the row for symbol out of the raw payload.
// Pure function: no caching, consumed once per cycle.
func (c *Client) ExtractMetrics(raw RawMarketData, symbol string) (models.MetricsSnapshot, error) {
	sym := helper.NormalizeSymbol(symbol)
	for _, row := range raw.Assets {
		if helper.NormalizeSymbol(row.Symbol) != sym {
			continue
		}
		return models.MetricsSnapshot{
			Volume1m:    row.Vol1m,
			Volume5m:    row.Vol5m,
			Spread1m:    row.Spread1m,
			Spread5m:    row.Spread5m,
			Trend:       row.Trend,
			Signal:      row.MFI,
			FundingRate: row.Funding,
			HMATrend:    row.HMATrend,
			ERITrend:    row.ERITrend,
		}, nil
	}
	return models.MetricsSnapshot{}, fmt.Errorf("no metrics for %s", symbol)
}

// GetMovingAverages computes the MA bands entry conditions compare against:
// 3- and 6-period high/low on the 1m window plus the 3-period highs used for
// stale-entry cancellation on 1m and 5m.
func (c *Client) GetMovingAverages(ctx context.Context, symbol string) (models.MovingAverages, error) {
	m1, err := c.candles.GetCandles(ctx, symbol, "1", 30)
	if err != nil {
		return models.MovingAverages{}, fmt.Errorf("1m candles: %w", err)
	}
	m5, err := c.candles.GetCandles(ctx, symbol, "5", 30)
	if err != nil {
		return models.MovingAverages{}, fmt.Errorf("5m candles: %w", err)
	}
	if len(m1) < 6 || len(m5) < 3 {
		return models.MovingAverages{}, fmt.Errorf("not enough candles for %s", symbol)
	}

	ma := models.MovingAverages{
		MA3High:   maHigh(m1, 3),
		MA3Low:    maLow(m1, 3),
		MA6High:   maHigh(m1, 6),
		MA6Low:    maLow(m1, 6),
		MA1m3High: maHigh(m1, 3),
		MA5m3High: maHigh(m5, 3),
	}
	return ma, nil
}

// maHigh averages the highs of the last n candles.
func maHigh(candles []Candle, n int) float64 {
	if n <= 0 || len(candles) < n {
		return 0
	}
	var sum float64
	for _, c := range candles[len(candles)-n:] {
		sum += c.High
	}
	return sum / float64(n)
}

func maLow(candles []Candle, n int) float64 {
	if n <= 0 || len(candles) < n {
		return 0
	}
	var sum float64
	for _, c := range candles[len(candles)-n:] {
		sum += c.Low
	}
	return sum / float64(n)
}
