package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"scalper_bot/internal/models"

	"github.com/bytedance/sonic"
)

// CancelAllOrders drops every resting order for the symbol.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) error {
	body, err := sonic.MarshalString(map[string]string{
		"category": category,
		"symbol":   symbol,
	})
	if err != nil {
		return fmt.Errorf("marshal cancel-all: %w", err)
	}

	raw, err := c.signedRequest(ctx, http.MethodPost, "/v5/order/cancel-all", "", body)
	if err != nil {
		return fmt.Errorf("cancel all orders: %w", err)
	}
	if _, err := unwrap(raw); err != nil {
		return fmt.Errorf("cancel all orders %s: %w", symbol, err)
	}
	return nil
}

// CancelOrder cancels a single resting order by id.
func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) error {
	body, err := sonic.MarshalString(map[string]string{
		"category": category,
		"symbol":   symbol,
		"orderId":  orderID,
	})
	if err != nil {
		return fmt.Errorf("marshal cancel: %w", err)
	}

	raw, err := c.signedRequest(ctx, http.MethodPost, "/v5/order/cancel", "", body)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if _, err := unwrap(raw); err != nil {
		return fmt.Errorf("cancel order %s/%s: %w", symbol, orderID, err)
	}
	return nil
}

// GetOpenOrders lists resting orders for the symbol.
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("symbol", symbol)

	raw, err := c.signedRequest(ctx, http.MethodGet, "/v5/order/realtime", q.Encode(), "")
	if err != nil {
		return nil, fmt.Errorf("open orders: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	var out struct {
		List []struct {
			OrderID     string `json:"orderId"`
			Symbol      string `json:"symbol"`
			Side        string `json:"side"`
			Price       string `json:"price"`
			Qty         string `json:"qty"`
			ReduceOnly  bool   `json:"reduceOnly"`
			PositionIdx int    `json:"positionIdx"`
		} `json:"list"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return nil, fmt.Errorf("decode open orders: %w", err)
	}

	orders := make([]models.OpenOrder, 0, len(out.List))
	for _, o := range out.List {
		orders = append(orders, models.OpenOrder{
			OrderID:     o.OrderID,
			Symbol:      o.Symbol,
			Side:        o.Side,
			Price:       parseFloat(o.Price),
			Qty:         parseFloat(o.Qty),
			ReduceOnly:  o.ReduceOnly,
			PositionIdx: o.PositionIdx,
		})
	}
	return orders, nil
}

// GetOpenTakeProfitOrderCounts counts reduce-only resting orders per side.
// positionIdx 1 closes the long, 2 closes the short.
func (c *Client) GetOpenTakeProfitOrderCounts(ctx context.Context, symbol string) (models.TPOrderCounts, error) {
	orders, err := c.GetOpenOrders(ctx, symbol)
	if err != nil {
		return models.TPOrderCounts{}, err
	}

	var counts models.TPOrderCounts
	for _, o := range orders {
		if !o.ReduceOnly {
			continue
		}
		switch o.PositionIdx {
		case 1:
			counts.Long++
		case 2:
			counts.Short++
		}
	}
	return counts, nil
}

// PlaceTakeProfitOrder rests a reduce-only post-only limit closing the given
// side at price. existingOrders is the caller's already-fetched view; if it
// contains a matching reduce-only order the placement is a no-op.
func (c *Client) PlaceTakeProfitOrder(
	ctx context.Context,
	symbol string,
	qty float64,
	price float64,
	side models.PositionSide,
	positionIdx int,
	existingOrders []models.OpenOrder,
) error {
	if qty <= 0 || price <= 0 {
		return fmt.Errorf("place tp: bad qty/price")
	}

	for _, o := range existingOrders {
		if o.ReduceOnly && o.PositionIdx == positionIdx {
			return nil
		}
	}

	// closing order is the opposite side of the position
	orderSide := "Sell"
	if side == models.Short {
		orderSide = "Buy"
	}

	body, err := sonic.MarshalString(map[string]any{
		"category":    category,
		"symbol":      symbol,
		"side":        orderSide,
		"orderType":   "Limit",
		"qty":         strconv.FormatFloat(qty, 'f', -1, 64),
		"price":       strconv.FormatFloat(price, 'f', -1, 64),
		"timeInForce": "PostOnly",
		"reduceOnly":  true,
		"positionIdx": positionIdx,
	})
	if err != nil {
		return fmt.Errorf("marshal tp order: %w", err)
	}

	raw, err := c.signedRequest(ctx, http.MethodPost, "/v5/order/create", "", body)
	if err != nil {
		return fmt.Errorf("place tp order: %w", err)
	}
	if _, err := unwrap(raw); err != nil {
		return fmt.Errorf("place tp order %s: %w", symbol, err)
	}
	return nil
}

// PlaceLimitOrder rests a plain limit order and returns its id.
func (c *Client) PlaceLimitOrder(
	ctx context.Context,
	symbol string,
	side string, // Buy / Sell
	qty float64,
	price float64,
	positionIdx int,
	postOnly bool,
) (string, error) {
	if qty <= 0 || price <= 0 {
		return "", fmt.Errorf("place limit: bad qty/price")
	}

	tif := "GTC"
	if postOnly {
		tif = "PostOnly"
	}
	body, err := sonic.MarshalString(map[string]any{
		"category":    category,
		"symbol":      symbol,
		"side":        side,
		"orderType":   "Limit",
		"qty":         strconv.FormatFloat(qty, 'f', -1, 64),
		"price":       strconv.FormatFloat(price, 'f', -1, 64),
		"timeInForce": tif,
		"positionIdx": positionIdx,
	})
	if err != nil {
		return "", fmt.Errorf("marshal limit order: %w", err)
	}

	raw, err := c.signedRequest(ctx, http.MethodPost, "/v5/order/create", "", body)
	if err != nil {
		return "", fmt.Errorf("place limit order: %w", err)
	}
	res, err := unwrap(raw)
	if err != nil {
		return "", fmt.Errorf("place limit order %s: %w", symbol, err)
	}

	var out struct {
		OrderID string `json:"orderId"`
	}
	if err := sonic.Unmarshal(res, &out); err != nil {
		return "", fmt.Errorf("decode order id: %w", err)
	}
	return out.OrderID, nil
}
