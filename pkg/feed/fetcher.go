package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/retry"
)

// maxFeedSize limits the size of a fetched feed document
const maxFeedSize = 16 * 1024 * 1024

// Fetcher fetches RSS/Atom feeds via HTTP with retries and optional fallback content
type Fetcher struct {
	client    *http.Client
	userAgent string
	retryOpts []retry.Option
}

// Params holds fetcher configuration
type Params struct {
	Timeout   time.Duration // per-request timeout of the http client
	UserAgent string
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Client    *http.Client // optional, overrides the default client
	Sleep     func(ctx context.Context, d time.Duration) error
}

// StatusError is returned for unexpected HTTP status codes
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.Code, e.URL)
}

// NewFetcher creates a new feed fetcher
func NewFetcher(p Params) *Fetcher {
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
	client := p.Client
	if client == nil {
		client = &http.Client{
			Timeout: p.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	opts := []retry.Option{retry.Retries(p.Retries), retry.ShouldRetry(retry.IsTransient), retry.Sleeper(p.Sleep)}
	if p.BaseDelay > 0 {
		opts = append(opts, retry.BaseDelay(p.BaseDelay))
	}
	if p.MaxDelay > 0 {
		opts = append(opts, retry.MaxDelay(p.MaxDelay))
	}
	return &Fetcher{client: client, userAgent: p.UserAgent, retryOpts: opts}
}

// Fetch retrieves and parses the feed at feedURL. Network failures, 429 and 5xx responses
// are retried; malformed feeds are not. If every attempt fails and fallback is not empty,
// the fallback content is parsed instead.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, fallback []byte) ([]domain.RawItem, error) {
	opts := append([]retry.Option{}, f.retryOpts...)
	opts = append(opts, retry.OnRetry(func(err error, attempt int) {
		lgr.Printf("[DEBUG] feed %s attempt %d failed, retrying: %v", feedURL, attempt, err)
	}))

	items, err := retry.DoValue(ctx, func(int) ([]domain.RawItem, error) {
		return f.fetchOnce(ctx, feedURL)
	}, opts...)
	if err == nil {
		return items, nil
	}

	if len(fallback) == 0 {
		return nil, err
	}

	lgr.Printf("[WARN] feed %s failed, using fallback content: %v", feedURL, err)
	items, ferr := ParseBytes(fallback)
	if ferr != nil {
		return nil, fmt.Errorf("fallback for %s: %w", feedURL, ferr)
	}
	return items, nil
}

// fetchOnce performs a single fetch and parse
func (f *Fetcher) fetchOnce(ctx context.Context, feedURL string) ([]domain.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	addFeedHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{URL: feedURL, Code: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, retry.Mark(statusErr)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", feedURL, err)
	}

	return ParseBytes(body)
}
