package exchange

import (
	"context"
	"time"

	"scalper_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

const wsPublicURL = "wss://stream.bybit.com/v5/public/linear"

// StreamPrices keeps the last-price cache warm for the given symbols over one
// public websocket. Reconnects with a short linear backoff; gives up after
// repeated consecutive failures and lets REST fallback carry the load.
func (c *Client) StreamPrices(ctx context.Context, symbols []string) {
	if len(symbols) == 0 {
		return
	}

	args := make([]string, 0, len(symbols))
	for _, s := range symbols {
		args = append(args, "tickers."+s)
	}

	retry := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := c.wsDialer.Dial(wsPublicURL, nil)
		if err != nil {
			retry++
			if retry > 8 {
				logger.Warn("ws: giving up after %d dial failures", retry)
				return
			}
			time.Sleep(time.Duration(300*retry) * time.Millisecond)
			continue
		}
		retry = 0

		_ = conn.WriteJSON(map[string]any{"op": "subscribe", "args": args})

		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(15 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stopPing:
					return
				case <-ctx.Done():
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(stopPing)
				_ = conn.Close()
				break
			}
			var frame struct {
				Topic string `json:"topic"`
				Data  struct {
					Symbol    string `json:"symbol"`
					LastPrice string `json:"lastPrice"`
				} `json:"data"`
			}
			if err := sonic.Unmarshal(msg, &frame); err != nil {
				continue
			}
			if frame.Data.Symbol == "" {
				continue
			}
			if px := parseFloat(frame.Data.LastPrice); px > 0 {
				c.setPrice(frame.Data.Symbol, px)
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(1 * time.Second)
		}
	}
}
