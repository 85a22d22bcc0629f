// Package market fetches ranked robotics token quotes from a CoinGecko compatible markets API
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/retry"
)

// DefaultEndpoint is the public CoinGecko API base
const DefaultEndpoint = "https://api.coingecko.com/api/v3"

// maxBodySnippet limits the response body carried by StatusError
const maxBodySnippet = 512

// Client retrieves token market data
type Client struct {
	endpoint  string
	apiKey    string
	timeout   time.Duration
	client    *http.Client
	retryOpts []retry.Option
}

// Params holds market client configuration
type Params struct {
	Endpoint  string
	APIKey    string
	Timeout   time.Duration // per-attempt timeout, default 10s
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Client    *http.Client // optional, shared transport
	Sleep     func(ctx context.Context, d time.Duration) error
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market api status %d: %s", e.Code, e.Body)
}

// marketEntry is one element of the /coins/markets response
type marketEntry struct {
	ID                  string   `json:"id"`
	Symbol              string   `json:"symbol"`
	Name                string   `json:"name"`
	Image               *string  `json:"image"`
	CurrentPrice        *float64 `json:"current_price"`
	MarketCap           *float64 `json:"market_cap"`
	TotalVolume         *float64 `json:"total_volume"`
	MarketCapRank       *int     `json:"market_cap_rank"`
	Change1hInCurrency  *float64 `json:"price_change_percentage_1h_in_currency"`
	Change24hInCurrency *float64 `json:"price_change_percentage_24h_in_currency"`
	Change7dInCurrency  *float64 `json:"price_change_percentage_7d_in_currency"`
}

// NewClient makes a market client. A missing api key is reported by FetchTokens.
func NewClient(p Params) *Client {
	if p.Endpoint == "" {
		p.Endpoint = DefaultEndpoint
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	client := p.Client
	if client == nil {
		client = &http.Client{}
	}
	opts := []retry.Option{retry.Retries(p.Retries), retry.Sleeper(p.Sleep)}
	if p.BaseDelay > 0 {
		opts = append(opts, retry.BaseDelay(p.BaseDelay))
	}
	if p.MaxDelay > 0 {
		opts = append(opts, retry.MaxDelay(p.MaxDelay))
	}
	return &Client{
		endpoint:  strings.TrimRight(p.Endpoint, "/"),
		apiKey:    p.APIKey,
		timeout:   p.Timeout,
		client:    client,
		retryOpts: opts,
	}
}

// FetchTokens returns robotics tokens ordered by market cap, descending, as ranked by the provider
func (c *Client) FetchTokens(ctx context.Context) ([]domain.TokenQuote, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("market api key is not set: %w", domain.ErrConfig)
	}

	opts := append([]retry.Option{}, c.retryOpts...)
	opts = append(opts, retry.OnRetry(func(err error, attempt int) {
		lgr.Printf("[DEBUG] market fetch attempt %d failed, retrying: %v", attempt, err)
	}))

	return retry.DoValue(ctx, func(int) ([]domain.TokenQuote, error) {
		return c.fetchOnce(ctx)
	}, opts...)
}

func (c *Client) marketsURL() string {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("category", "robotics")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", "250")
	q.Set("page", "1")
	q.Set("price_change_percentage", "1h,24h,7d")
	return c.endpoint + "/coins/markets?" + q.Encode()
}

// fetchOnce issues a single request bounded by the per-attempt timeout
func (c *Client) fetchOnce(ctx context.Context) ([]domain.TokenQuote, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.marketsURL(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-cg-pro-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classify(ctx, reqCtx, fmt.Errorf("fetch markets: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, retry.Mark(statusErr)
		}
		return nil, statusErr
	}

	var entries []marketEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, c.classify(ctx, reqCtx, fmt.Errorf("decode markets: %w", err))
	}

	res := make([]domain.TokenQuote, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.quote())
	}
	return res, nil
}

// classify marks timeouts and aborted reads of the current attempt as retriable.
// Cancellation of the parent context is returned as is.
func (c *Client) classify(ctx, reqCtx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	if reqCtx.Err() != nil || retry.IsNetworkError(err) {
		return retry.Mark(err)
	}
	return err
}

func (e marketEntry) quote() domain.TokenQuote {
	q := domain.TokenQuote{
		ProviderID:   e.ID,
		Symbol:       e.Symbol,
		Name:         e.Name,
		PriceUSD:     deref(e.CurrentPrice),
		MarketCapUSD: deref(e.MarketCap),
		Volume24hUSD: deref(e.TotalVolume),
		Change1hPct:  deref(e.Change1hInCurrency),
		Change24hPct: deref(e.Change24hInCurrency),
		Change7dPct:  deref(e.Change7dInCurrency),
	}
	if e.Image != nil && strings.TrimSpace(*e.Image) != "" {
		img := strings.TrimSpace(*e.Image)
		q.Image = &img
	}
	if e.MarketCapRank != nil {
		q.Rank = *e.MarketCapRank
	}
	return q
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
