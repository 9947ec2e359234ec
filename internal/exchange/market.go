package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"scalper_bot/internal/models"

	"github.com/bytedance/sonic"
)

// priceMaxAge bounds how stale a ws-cached price may be before we fall back to REST.
const priceMaxAge = 15 * time.Second

// GetCurrentPrice serves the last ws ticker price when fresh, REST otherwise.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	c.mu.RLock()
	lp, ok := c.prices[symbol]
	c.mu.RUnlock()
	if ok && time.Since(lp.at) < priceMaxAge && lp.px > 0 {
		return lp.px, nil
	}

	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)

	raw, err := c.publicRequest(ctx, "/v5/market/tickers", q.Encode())
	if err != nil {
		return 0, fmt.Errorf("tickers: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return 0, err
	}

	var out struct {
		List []struct {
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return 0, fmt.Errorf("decode tickers: %w", err)
	}
	if len(out.List) == 0 {
		return 0, fmt.Errorf("no ticker for %s", symbol)
	}
	px := parseFloat(out.List[0].LastPrice)
	if px <= 0 {
		return 0, fmt.Errorf("bad last price for %s", symbol)
	}
	c.setPrice(symbol, px)
	return px, nil
}

func (c *Client) setPrice(symbol string, px float64) {
	c.mu.Lock()
	c.prices[symbol] = lastPrice{px: px, at: time.Now()}
	c.mu.Unlock()
}

// GetOrderbook returns top-of-book levels, best first. Either side may be empty.
func (c *Client) GetOrderbook(ctx context.Context, symbol string) (models.Orderbook, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)
	q.Set("limit", "25")

	raw, err := c.publicRequest(ctx, "/v5/market/orderbook", q.Encode())
	if err != nil {
		return models.Orderbook{}, fmt.Errorf("orderbook: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return models.Orderbook{}, err
	}

	var out struct {
		Bids [][2]string `json:"b"`
		Asks [][2]string `json:"a"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return models.Orderbook{}, fmt.Errorf("decode orderbook: %w", err)
	}

	ob := models.Orderbook{
		Bids: make([][2]float64, 0, len(out.Bids)),
		Asks: make([][2]float64, 0, len(out.Asks)),
	}
	for _, lvl := range out.Bids {
		ob.Bids = append(ob.Bids, [2]float64{parseFloat(lvl[0]), parseFloat(lvl[1])})
	}
	for _, lvl := range out.Asks {
		ob.Asks = append(ob.Asks, [2]float64{parseFloat(lvl[0]), parseFloat(lvl[1])})
	}
	return ob, nil
}

// GetRecentTrades pulls public executions since the given time, newest first.
func (c *Client) GetRecentTrades(ctx context.Context, symbol string, since time.Time, limit int) ([]models.Trade, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)
	q.Set("limit", strconv.Itoa(limit))

	raw, err := c.publicRequest(ctx, "/v5/market/recent-trade", q.Encode())
	if err != nil {
		return nil, fmt.Errorf("recent trades: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	var out struct {
		List []struct {
			Price string `json:"price"`
			Size  string `json:"size"`
			Time  string `json:"time"` // ms
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return nil, fmt.Errorf("decode recent trades: %w", err)
	}

	trades := make([]models.Trade, 0, len(out.List))
	for _, t := range out.List {
		ms, _ := strconv.ParseInt(t.Time, 10, 64)
		ts := time.UnixMilli(ms)
		if ts.Before(since) {
			continue
		}
		trades = append(trades, models.Trade{
			Timestamp: ts,
			Price:     parseFloat(t.Price),
			Qty:       parseFloat(t.Size),
		})
	}
	return trades, nil
}

// Candle is a single kline row used for moving-average bands.
type Candle struct {
	Start time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// GetCandles returns the most recent klines, oldest first.
// interval is in bybit notation: "1", "5", "15", ...
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	raw, err := c.publicRequest(ctx, "/v5/market/kline", q.Encode())
	if err != nil {
		return nil, fmt.Errorf("kline: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	var out struct {
		List [][]string `json:"list"` // [start, open, high, low, close, volume, turnover], newest first
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return nil, fmt.Errorf("decode kline: %w", err)
	}

	candles := make([]Candle, 0, len(out.List))
	for i := len(out.List) - 1; i >= 0; i-- {
		row := out.List[i]
		if len(row) < 5 {
			continue
		}
		ms, _ := strconv.ParseInt(row[0], 10, 64)
		candles = append(candles, Candle{
			Start: time.UnixMilli(ms),
			Open:  parseFloat(row[1]),
			High:  parseFloat(row[2]),
			Low:   parseFloat(row[3]),
			Close: parseFloat(row[4]),
		})
	}
	return candles, nil
}

// GetFundingRate returns the symbol's current funding rate.
func (c *Client) GetFundingRate(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)

	raw, err := c.publicRequest(ctx, "/v5/market/tickers", q.Encode())
	if err != nil {
		return 0, fmt.Errorf("tickers: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return 0, err
	}

	var out struct {
		List []struct {
			FundingRate string `json:"fundingRate"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return 0, fmt.Errorf("decode tickers: %w", err)
	}
	if len(out.List) == 0 {
		return 0, fmt.Errorf("no ticker for %s", symbol)
	}
	return parseFloat(out.List[0].FundingRate), nil
}
