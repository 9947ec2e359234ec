package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"scalper_bot/internal/models"

	"github.com/bytedance/sonic"
)

// GetOpenPositions returns every open position across symbols as raw records.
// Field validation is left to the snapshot builder.
func (c *Client) GetOpenPositions(ctx context.Context) ([]models.PositionRecord, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("settleCoin", "USDT")

	raw, err := c.signedRequest(ctx, http.MethodGet, "/v5/position/list", q.Encode(), "")
	if err != nil {
		return nil, fmt.Errorf("position list: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	var out struct {
		List []struct {
			Symbol         string `json:"symbol"`
			Side           string `json:"side"`
			Size           string `json:"size"`
			AvgPrice       string `json:"avgPrice"`
			UnrealisedPnl  string `json:"unrealisedPnl"`
			CumRealisedPnl string `json:"cumRealisedPnl"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return nil, fmt.Errorf("decode position list: %w", err)
	}

	records := make([]models.PositionRecord, 0, len(out.List))
	for _, p := range out.List {
		records = append(records, models.PositionRecord{
			Symbol:         p.Symbol,
			Side:           p.Side,
			Size:           p.Size,
			AvgPrice:       p.AvgPrice,
			UnrealizedPnL:  p.UnrealisedPnl,
			CumRealizedPnL: p.CumRealisedPnl,
		})
	}
	return records, nil
}
