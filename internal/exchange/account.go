package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
)

// GetBalance returns total wallet equity in the given coin.
func (c *Client) GetBalance(ctx context.Context, coin string) (float64, error) {
	total, _, err := c.walletBalance(ctx, coin)
	return total, err
}

// GetAvailableBalance returns equity not locked in positions or orders.
func (c *Client) GetAvailableBalance(ctx context.Context, coin string) (float64, error) {
	_, avail, err := c.walletBalance(ctx, coin)
	return avail, err
}

func (c *Client) walletBalance(ctx context.Context, coin string) (float64, float64, error) {
	q := url.Values{}
	q.Set("accountType", "UNIFIED")
	q.Set("coin", coin)

	raw, err := c.signedRequest(ctx, http.MethodGet, "/v5/account/wallet-balance", q.Encode(), "")
	if err != nil {
		return 0, 0, fmt.Errorf("wallet balance: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return 0, 0, err
	}

	var out struct {
		List []struct {
			TotalEquity string `json:"totalEquity"`
			Coin        []struct {
				Coin                string `json:"coin"`
				Equity              string `json:"equity"`
				AvailableToWithdraw string `json:"availableToWithdraw"`
			} `json:"coin"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return 0, 0, fmt.Errorf("decode wallet balance: %w", err)
	}
	if len(out.List) == 0 {
		return 0, 0, fmt.Errorf("empty wallet balance for %s", coin)
	}

	acct := out.List[0]
	for _, cc := range acct.Coin {
		if cc.Coin == coin {
			return parseFloat(cc.Equity), parseFloat(cc.AvailableToWithdraw), nil
		}
	}
	return parseFloat(acct.TotalEquity), 0, nil
}

// GetMaxLeverage reads the instrument's max leverage from instruments-info.
func (c *Client) GetMaxLeverage(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)

	raw, err := c.publicRequest(ctx, "/v5/market/instruments-info", q.Encode())
	if err != nil {
		return 0, fmt.Errorf("instruments info: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return 0, err
	}

	var out struct {
		List []struct {
			LeverageFilter struct {
				MaxLeverage string `json:"maxLeverage"`
			} `json:"leverageFilter"`
			LotSizeFilter struct {
				MinOrderQty string `json:"minOrderQty"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return 0, fmt.Errorf("decode instruments info: %w", err)
	}
	if len(out.List) == 0 {
		return 0, fmt.Errorf("instrument %s not found", symbol)
	}
	lev := parseFloat(out.List[0].LeverageFilter.MaxLeverage)
	if lev <= 0 {
		return 0, fmt.Errorf("instrument %s: bad max leverage", symbol)
	}
	return lev, nil
}

// GetMinOrderQty returns the instrument's minimum order quantity.
func (c *Client) GetMinOrderQty(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)

	raw, err := c.publicRequest(ctx, "/v5/market/instruments-info", q.Encode())
	if err != nil {
		return 0, fmt.Errorf("instruments info: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return 0, err
	}

	var out struct {
		List []struct {
			LotSizeFilter struct {
				MinOrderQty string `json:"minOrderQty"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return 0, fmt.Errorf("decode instruments info: %w", err)
	}
	if len(out.List) == 0 {
		return 0, fmt.Errorf("instrument %s not found", symbol)
	}
	return parseFloat(out.List[0].LotSizeFilter.MinOrderQty), nil
}

// GetPriceTick returns the instrument's price tick size.
func (c *Client) GetPriceTick(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)

	raw, err := c.publicRequest(ctx, "/v5/market/instruments-info", q.Encode())
	if err != nil {
		return 0, fmt.Errorf("instruments info: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return 0, err
	}

	var out struct {
		List []struct {
			PriceFilter struct {
				TickSize string `json:"tickSize"`
			} `json:"priceFilter"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return 0, fmt.Errorf("decode instruments info: %w", err)
	}
	if len(out.List) == 0 {
		return 0, fmt.Errorf("instrument %s not found", symbol)
	}
	return parseFloat(out.List[0].PriceFilter.TickSize), nil
}

// SetLeverage applies the same leverage to both sides of a hedged symbol.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage float64) error {
	lv := strconv.FormatFloat(leverage, 'f', -1, 64)
	body, err := sonic.MarshalString(map[string]string{
		"category":     category,
		"symbol":       symbol,
		"buyLeverage":  lv,
		"sellLeverage": lv,
	})
	if err != nil {
		return fmt.Errorf("marshal set-leverage: %w", err)
	}

	raw, err := c.signedRequest(ctx, http.MethodPost, "/v5/position/set-leverage", "", body)
	if err != nil {
		return fmt.Errorf("set leverage: %w", err)
	}
	if _, err := unwrap(raw); err != nil {
		// 110043: leverage not modified, already at target
		return fmt.Errorf("set leverage %s: %w", symbol, err)
	}
	return nil
}

// SetCrossMargin switches the symbol to cross margin with the given leverage.
func (c *Client) SetCrossMargin(ctx context.Context, symbol string, leverage float64) error {
	lv := strconv.FormatFloat(leverage, 'f', -1, 64)
	body, err := sonic.MarshalString(map[string]any{
		"category":     category,
		"symbol":       symbol,
		"tradeMode":    0, // 0 cross, 1 isolated
		"buyLeverage":  lv,
		"sellLeverage": lv,
	})
	if err != nil {
		return fmt.Errorf("marshal switch-isolated: %w", err)
	}

	raw, err := c.signedRequest(ctx, http.MethodPost, "/v5/position/switch-isolated", "", body)
	if err != nil {
		return fmt.Errorf("set cross margin: %w", err)
	}
	if _, err := unwrap(raw); err != nil {
		return fmt.Errorf("set cross margin %s: %w", symbol, err)
	}
	return nil
}
