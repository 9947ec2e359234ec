package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	restBase   = "https://api.bybit.com"
	recvWindow = "5000"
	category   = "linear"
)

type Client struct {
	http      *http.Client
	wsDialer  *websocket.Dialer
	apiKey    string
	apiSecret string

	mu     sync.RWMutex
	prices map[string]lastPrice // ws ticker cache
}

type lastPrice struct {
	px float64
	at time.Time
}

func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		wsDialer: &websocket.Dialer{},
		prices:   make(map[string]lastPrice),
	}
}

func (c *Client) SetCreds(key, secret string) { c.apiKey, c.apiSecret = key, secret }

// sign builds the v5 request signature: HMAC-SHA256 over ts + key + window + payload.
func (c *Client) sign(ts, payload string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(ts + c.apiKey + recvWindow + payload))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) signedRequest(ctx context.Context, method, path, query, body string) ([]byte, error) {
	if c.apiKey == "" || c.apiSecret == "" {
		return nil, fmt.Errorf("api creds empty")
	}

	url := restBase + path
	if query != "" {
		url += "?" + query
	}

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	ts := strconv.FormatInt(time.Now().UTC().UnixMilli(), 10)
	payload := body
	if method == http.MethodGet {
		payload = query
	}
	req.Header.Set("X-BAPI-API-KEY", c.apiKey)
	req.Header.Set("X-BAPI-TIMESTAMP", ts)
	req.Header.Set("X-BAPI-RECV-WINDOW", recvWindow)
	req.Header.Set("X-BAPI-SIGN", c.sign(ts, payload))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	return rb, nil
}

func (c *Client) publicRequest(ctx context.Context, path, query string) ([]byte, error) {
	url := restBase + path
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	return rb, nil
}

// unwrap validates the common v5 response envelope and returns the result blob.
func unwrap(raw []byte) (json.RawMessage, error) {
	var e struct {
		RetCode int             `json:"retCode"`
		RetMsg  string          `json:"retMsg"`
		Result  json.RawMessage `json:"result"`
	}
	if err := sonic.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if e.RetCode != 0 {
		return nil, fmt.Errorf("bybit error: code=%d msg=%s", e.RetCode, e.RetMsg)
	}
	return e.Result, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
