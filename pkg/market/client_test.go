package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/retry"
)

const marketsResp = `[
	{"id":"fetch-ai","symbol":"fet","name":"Fetch.ai","image":"https://img.example.com/fet.png",
	 "current_price":1.25,"market_cap":3200000000,"total_volume":150000000,"market_cap_rank":1,
	 "price_change_percentage_1h_in_currency":0.5,"price_change_percentage_24h_in_currency":-2.1,
	 "price_change_percentage_7d_in_currency":10.4},
	{"id":"robo-token","symbol":"robo","name":"Robo Token","image":"",
	 "current_price":0.01,"market_cap":1000000,"total_volume":5000,"market_cap_rank":2}
]`

func noWait(context.Context, time.Duration) error { return nil }

func TestClient_FetchTokens(t *testing.T) {
	t.Run("request and mapping", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/coins/markets", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "robotics", q.Get("category"))
			assert.Equal(t, "usd", q.Get("vs_currency"))
			assert.Equal(t, "market_cap_desc", q.Get("order"))
			assert.Equal(t, "250", q.Get("per_page"))
			assert.Equal(t, "1", q.Get("page"))
			assert.Equal(t, "1h,24h,7d", q.Get("price_change_percentage"))
			assert.Equal(t, "application/json", r.Header.Get("accept"))
			assert.Equal(t, "secret-key", r.Header.Get("x-cg-pro-api-key"))
			_, _ = w.Write([]byte(marketsResp))
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL + "/", APIKey: "secret-key", Sleep: noWait})
		tokens, err := client.FetchTokens(context.Background())
		require.NoError(t, err)
		require.Len(t, tokens, 2)

		assert.Equal(t, "fetch-ai", tokens[0].ProviderID)
		assert.Equal(t, "fet", tokens[0].Symbol)
		require.NotNil(t, tokens[0].Image)
		assert.Equal(t, "https://img.example.com/fet.png", *tokens[0].Image)
		assert.InDelta(t, 1.25, tokens[0].PriceUSD, 0.0001)
		assert.InDelta(t, 3200000000, tokens[0].MarketCapUSD, 0.1)
		assert.InDelta(t, 150000000, tokens[0].Volume24hUSD, 0.1)
		assert.InDelta(t, 0.5, tokens[0].Change1hPct, 0.0001)
		assert.InDelta(t, -2.1, tokens[0].Change24hPct, 0.0001)
		assert.InDelta(t, 10.4, tokens[0].Change7dPct, 0.0001)
		assert.Equal(t, 1, tokens[0].Rank)

		assert.Equal(t, "robo-token", tokens[1].ProviderID)
		assert.Nil(t, tokens[1].Image)
		assert.Zero(t, tokens[1].Change1hPct)
		assert.Zero(t, tokens[1].Change24hPct)
		assert.Zero(t, tokens[1].Change7dPct)
		assert.Equal(t, 2, tokens[1].Rank)
	})

	t.Run("missing api key makes no request", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL, Retries: 3, Sleep: noWait})
		tokens, err := client.FetchTokens(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))
		assert.False(t, retry.IsTransient(err))
		assert.Nil(t, tokens)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("rate limit and server errors are retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch atomic.AddInt32(&calls, 1) {
			case 1:
				w.WriteHeader(http.StatusTooManyRequests)
			case 2:
				w.WriteHeader(http.StatusBadGateway)
			default:
				_, _ = w.Write([]byte(marketsResp))
			}
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL, APIKey: "k", Retries: 3, Sleep: noWait})
		tokens, err := client.FetchTokens(context.Background())
		require.NoError(t, err)
		assert.Len(t, tokens, 2)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("client error is terminal", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL, APIKey: "bad", Retries: 3, Sleep: noWait})
		_, err := client.FetchTokens(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
		assert.Contains(t, statusErr.Body, "invalid api key")
	})

	t.Run("attempt timeout is retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
				return
			}
			_, _ = w.Write([]byte(marketsResp))
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond, Retries: 2, Sleep: noWait})
		tokens, err := client.FetchTokens(context.Background())
		require.NoError(t, err)
		assert.Len(t, tokens, 2)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("retries exhausted on timeouts", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL, APIKey: "k", Timeout: 20 * time.Millisecond, Retries: 1, Sleep: noWait})
		_, err := client.FetchTokens(context.Background())
		require.Error(t, err)
		assert.True(t, retry.IsRetriable(err))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("canceled parent context is not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = w.Write([]byte(marketsResp))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := NewClient(Params{Endpoint: server.URL, APIKey: "k", Retries: 3, Sleep: noWait})
		_, err := client.FetchTokens(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	})

	t.Run("empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewClient(Params{Endpoint: server.URL, APIKey: "k", Sleep: noWait})
		tokens, err := client.FetchTokens(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})
}
