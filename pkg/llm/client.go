// Package llm implements news enrichment and question answering over an OpenAI-compatible chat API
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/robohub/pkg/config"
	"github.com/umputun/robohub/pkg/retry"
)

//go:generate moq -out mocks/chat_client.go -pkg mocks -skip-ensure -fmt goimports . ChatClient

// ChatClient is the subset of the OpenAI client used here
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAI makes the chat client shared by all calls of the process.
// Returns nil if no api key is configured.
func NewOpenAI(cfg config.LLMConfig) ChatClient {
	if cfg.APIKey == "" {
		return nil
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(clientConfig)
}

// retriableStatus lists HTTP statuses worth another attempt
var retriableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusConflict:            true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// isRetriable classifies chat completion failures
func isRetriable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retriableStatus[apiErr.HTTPStatusCode]
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retriableStatus[reqErr.HTTPStatusCode]
	}
	return retry.IsNetworkError(err)
}

// completer runs chat completions under the retry policy
type completer struct {
	chat      ChatClient
	retryOpts []retry.Option
}

func newCompleter(chat ChatClient, rc config.RetryConfig) completer {
	opts := []retry.Option{retry.Retries(rc.Retries)}
	if rc.BaseDelay > 0 {
		opts = append(opts, retry.BaseDelay(rc.BaseDelay))
	}
	if rc.MaxDelay > 0 {
		opts = append(opts, retry.MaxDelay(rc.MaxDelay))
	}
	return completer{chat: chat, retryOpts: opts}
}

// withSleep returns a copy using fn for backoff sleeps
func (c completer) withSleep(fn func(ctx context.Context, d time.Duration) error) completer {
	c.retryOpts = append(append([]retry.Option{}, c.retryOpts...), retry.Sleeper(fn))
	return c
}

// complete sends the request and returns the text of the first choice
func (c completer) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	opts := append([]retry.Option{}, c.retryOpts...)
	opts = append(opts, retry.OnRetry(func(err error, attempt int) {
		lgr.Printf("[DEBUG] llm attempt %d failed, retrying: %v", attempt, err)
	}))

	resp, err := retry.DoValue(ctx, func(int) (openai.ChatCompletionResponse, error) {
		resp, err := c.chat.CreateChatCompletion(ctx, req)
		if err != nil && isRetriable(err) {
			return resp, retry.Mark(err)
		}
		return resp, err
	}, opts...)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from llm")
	}
	return resp.Choices[0].Message.Content, nil
}
