// Package content pulls the main text out of article pages for feed entries with a short body
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"

	"github.com/umputun/robohub/pkg/retry"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; Robohub/1.0)"
	maxPageSize      = 8 * 1024 * 1024
)

// ErrNoContent is returned when a page has no extractable text
var ErrNoContent = errors.New("no text content")

var acceptLanguages = []string{"en-US,en;q=0.9", "en-GB,en;q=0.9", "en-US,en;q=0.9,de;q=0.8", "en-US,en;q=0.9,ja;q=0.8"}

// Params holds extractor configuration
type Params struct {
	Timeout   time.Duration // per-request timeout, default 30s
	UserAgent string
	Retries   int // re-attempts for network errors, 429 and 5xx
	Client    *http.Client
	Sleep     func(ctx context.Context, d time.Duration) error
}

// HTTPExtractor fetches article pages and extracts their text with trafilatura
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
	retryOpts []retry.Option
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(p Params) *HTTPExtractor {
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
	if p.UserAgent == "" {
		p.UserAgent = defaultUserAgent
	}
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: p.Timeout}
	}
	return &HTTPExtractor{
		client:    client,
		userAgent: p.UserAgent,
		retryOpts: []retry.Option{retry.Retries(p.Retries), retry.ShouldRetry(retry.IsTransient), retry.Sleeper(p.Sleep)},
	}
}

// Extract retrieves the page at pageURL and returns its main text
func (e *HTTPExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid url: %q", pageURL)
	}

	opts := append([]retry.Option{}, e.retryOpts...)
	opts = append(opts, retry.OnRetry(func(err error, attempt int) {
		lgr.Printf("[DEBUG] page %s attempt %d failed, retrying: %v", pageURL, attempt, err)
	}))
	page, err := retry.DoValue(ctx, func(int) ([]byte, error) { return e.fetch(ctx, pageURL) }, opts...)
	if err != nil {
		return "", err
	}

	result, err := trafilatura.Extract(bytes.NewReader(page), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsed,
	})
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", pageURL, err)
	}
	if result == nil || strings.TrimSpace(result.ContentText) == "" {
		return "", fmt.Errorf("%s: %w", pageURL, ErrNoContent)
	}
	return strings.TrimSpace(result.ContentText), nil
}

// fetch downloads the page once and decodes it to utf-8
func (e *HTTPExtractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pageURL)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, retry.Mark(err)
		}
		return nil, err
	}

	// pages of some robotics trade sites are still served in legacy encodings
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}
	page, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	return page, nil
}
