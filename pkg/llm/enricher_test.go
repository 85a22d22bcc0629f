package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/robohub/pkg/config"
	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/llm/mocks"
)

const validCompletion = `{"title":"Acme ships a humanoid","summary_ai":"Deliveries start.","category":"product",` +
	`"robot_tags":["humanoid"],"importance_score":70,"company_name":"Acme Robotics","company_website":null}`

func completionResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:     "chatcmpl-1",
		Object: "chat.completion",
		Model:  "test-model",
		Choices: []openai.ChatCompletionChoice{
			{Index: 0, Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func testLLMConfig(endpoint string) config.LLMConfig {
	return config.LLMConfig{
		Endpoint:        endpoint,
		APIKey:          "test-key",
		Model:           "test-model",
		Temperature:     0.2,
		MaxContentChars: 40,
		Retry:           config.RetryConfig{Retries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}
}

func noWait(context.Context, time.Duration) error { return nil }

func testRawNews() domain.RawNews {
	return domain.RawNews{
		ID:        1,
		URL:       "https://example.com/humanoid",
		Title:     "Humanoid ships",
		Content:   "<p>Acme &amp; partners <b>ship</b> a humanoid robot to warehouses across Europe this year.</p>",
		Published: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestEnricher_Enrich(t *testing.T) {
	t.Run("request shape and result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req openai.ChatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			assert.InDelta(t, 0.2, req.Temperature, 0.0001)
			require.NotNil(t, req.ResponseFormat)
			assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			assert.Contains(t, req.Messages[0].Content, "strict JSON")
			assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
			assert.Equal(t, "Title: Humanoid ships\nURL: https://example.com/humanoid\n"+
				"Published at: 2024-05-01T10:00:00Z\nContent: Acme & partners ship a humanoid robot to...", req.Messages[1].Content)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(completionResponse(validCompletion))
		}))
		defer server.Close()

		cfg := testLLMConfig(server.URL + "/v1")
		enricher := NewEnricher(NewOpenAI(cfg), cfg).WithSleep(noWait)
		res, err := enricher.Enrich(context.Background(), testRawNews())
		require.NoError(t, err)
		assert.Equal(t, "Acme ships a humanoid", res.Title)
		assert.Equal(t, domain.CategoryProduct, res.Category)
		assert.Equal(t, []string{"humanoid"}, res.Tags)
		assert.Equal(t, 70, res.ImportanceScore)
		require.NotNil(t, res.CompanyName)
		assert.Equal(t, "Acme Robotics", *res.CompanyName)
		assert.Nil(t, res.CompanyWebsite)
	})

	t.Run("server errors retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(completionResponse(validCompletion))
		}))
		defer server.Close()

		cfg := testLLMConfig(server.URL + "/v1")
		enricher := NewEnricher(NewOpenAI(cfg), cfg).WithSleep(noWait)
		res, err := enricher.Enrich(context.Background(), testRawNews())
		require.NoError(t, err)
		assert.Equal(t, "Acme ships a humanoid", res.Title)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("bad request not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		cfg := testLLMConfig(server.URL + "/v1")
		enricher := NewEnricher(NewOpenAI(cfg), cfg).WithSleep(noWait)
		_, err := enricher.Enrich(context.Background(), testRawNews())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm request failed")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("invalid json is terminal", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(completionResponse("I think this is about robots"))
		}))
		defer server.Close()

		cfg := testLLMConfig(server.URL + "/v1")
		enricher := NewEnricher(NewOpenAI(cfg), cfg).WithSleep(noWait)
		_, err := enricher.Enrich(context.Background(), testRawNews())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidJSON))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("schema violation is terminal", func(t *testing.T) {
		chat := &mocks.ChatClientMock{
			CreateChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return completionResponse(`{"title":"","summary_ai":"x","category":"product","importance_score":50}`), nil
			},
		}
		enricher := NewEnricher(chat, testLLMConfig("")).WithSleep(noWait)
		_, err := enricher.Enrich(context.Background(), testRawNews())
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, chat.CreateChatCompletionCalls(), 1)
	})

	t.Run("empty choices", func(t *testing.T) {
		chat := &mocks.ChatClientMock{
			CreateChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, nil
			},
		}
		enricher := NewEnricher(chat, testLLMConfig("")).WithSleep(noWait)
		_, err := enricher.Enrich(context.Background(), testRawNews())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no response from llm")
	})

	t.Run("network errors retried until exhausted", func(t *testing.T) {
		chat := &mocks.ChatClientMock{
			CreateChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, context.DeadlineExceeded
			},
		}
		enricher := NewEnricher(chat, testLLMConfig("")).WithSleep(noWait)
		_, err := enricher.Enrich(context.Background(), testRawNews())
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Len(t, chat.CreateChatCompletionCalls(), 3)
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := testLLMConfig("http://127.0.0.1:1/v1")
		cfg.APIKey = ""
		chat := NewOpenAI(cfg)
		assert.Nil(t, chat)
		_, err := NewEnricher(chat, cfg).Enrich(context.Background(), testRawNews())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))
	})
}

func TestEnricher_plainText(t *testing.T) {
	wide := NewEnricher(nil, config.LLMConfig{MaxContentChars: 100})
	assert.Equal(t, "Robots & AI", wide.plainText("<div>Robots &amp; <script>x()</script>AI</div>"))
	assert.Equal(t, "line one line two", wide.plainText("<p>line one</p>\n\n<p>line   two</p>"))

	e := NewEnricher(nil, config.LLMConfig{MaxContentChars: 10})
	assert.Equal(t, "1234567890...", e.plainText("12345678901234"))
	assert.Equal(t, "ąćęłńóśźżż...", e.plainText("ąćęłńóśźżżź and more"))

	unlimited := NewEnricher(nil, config.LLMConfig{})
	long := strings.Repeat("robot ", 1000)
	assert.Equal(t, strings.TrimSpace(long), unlimited.plainText(long))
}

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "rate limit", err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, want: true},
		{name: "conflict", err: &openai.APIError{HTTPStatusCode: http.StatusConflict}, want: true},
		{name: "request timeout", err: &openai.APIError{HTTPStatusCode: http.StatusRequestTimeout}, want: true},
		{name: "gateway timeout", err: &openai.RequestError{HTTPStatusCode: http.StatusGatewayTimeout}, want: true},
		{name: "unauthorized", err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, want: false},
		{name: "not implemented", err: &openai.RequestError{HTTPStatusCode: http.StatusNotImplemented}, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetriable(tt.err))
		})
	}
}
