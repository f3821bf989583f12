// Package signals is the HTTP client for the cloud alpha-signal
// subscription service.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a signal service exposing /status and /v1/alpha. All
// requests carry the subscription key as a Bearer token and are bounded by
// the HTTP client's timeout so a slow service can never stall a tick
// indefinitely.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Status verifies connectivity and the subscription key.
func (c *Client) Status(ctx context.Context) error {
	req, err := c.newRequest(ctx, c.baseURL+"/status")
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("signals: status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signals: status: http %d", resp.StatusCode)
	}
	return nil
}

type alphaResponse struct {
	Date     string             `json:"date"`
	Universe string             `json:"universe"`
	Signals  map[string]float64 `json:"signals"`
}

// AlphaSignals fetches the symbol -> score map for a calendar day
// (YYYY-MM-DD). An empty signal set is returned as-is; transport and auth
// failures are errors.
func (c *Client) AlphaSignals(ctx context.Context, date, universe string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("date", date)
	if universe != "" {
		q.Set("universe", universe)
	}

	req, err := c.newRequest(ctx, c.baseURL+"/v1/alpha?"+q.Encode())
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signals: alpha: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("signals: alpha: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out alphaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("signals: alpha: decode: %w", err)
	}
	if out.Signals == nil {
		out.Signals = map[string]float64{}
	}
	return out.Signals, nil
}

func (c *Client) newRequest(ctx context.Context, rawurl string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "QuantopenClient/1.0")
	return req, nil
}
