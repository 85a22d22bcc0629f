package llm

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/robohub/pkg/config"
	"github.com/umputun/robohub/pkg/domain"
)

// ErrInvalidJSON is returned when the completion text is not a JSON object
var ErrInvalidJSON = errors.New("invalid json in llm response")

// enrichSystemPrompt requires strict JSON with the enrichment fields
const enrichSystemPrompt = `You are an AI editor that summarizes robotics news. Respond with strict JSON and include fields title, summary_ai, category, robot_tags, importance_score, company_name, company_website. Category must be one of product, funding, partnership, policy, or other. importance_score is an integer from 0-100.`

// Enricher turns raw news into validated enriched articles
type Enricher struct {
	completer
	model           string
	temperature     float32
	maxTokens       int
	maxContentChars int
	policy          *bluemonday.Policy
}

// NewEnricher makes an enricher using the shared chat client. A nil client means
// the api key is not configured, every Enrich call fails with domain.ErrConfig.
func NewEnricher(chat ChatClient, cfg config.LLMConfig) *Enricher {
	return &Enricher{
		completer:       newCompleter(chat, cfg.Retry),
		model:           cfg.Model,
		temperature:     float32(cfg.Temperature),
		maxTokens:       cfg.MaxTokens,
		maxContentChars: cfg.MaxContentChars,
		policy:          bluemonday.StrictPolicy(),
	}
}

// WithSleep replaces the backoff sleep, for tests
func (e *Enricher) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Enricher {
	e.completer = e.completer.withSleep(fn)
	return e
}

// Enrich sends one raw item to the model and validates the result.
// Transport failures are retried, malformed or invalid responses are not.
func (e *Enricher) Enrich(ctx context.Context, raw domain.RawNews) (domain.EnrichedArticle, error) {
	if e.chat == nil {
		return domain.EnrichedArticle{}, fmt.Errorf("llm api key is not set: %w", domain.ErrConfig)
	}

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enrichSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: e.userMessage(raw)},
		},
	}

	content, err := e.complete(ctx, req)
	if err != nil {
		return domain.EnrichedArticle{}, fmt.Errorf("llm request failed: %w", err)
	}
	return ParseEnrichment(content)
}

func (e *Enricher) userMessage(raw domain.RawNews) string {
	return fmt.Sprintf("Title: %s\nURL: %s\nPublished at: %s\nContent: %s",
		raw.Title, raw.URL, raw.Published.UTC().Format(time.RFC3339), e.plainText(raw.Content))
}

// plainText strips markup and cuts the text to maxContentChars runes
func (e *Enricher) plainText(s string) string {
	text := html.UnescapeString(e.policy.Sanitize(s))
	text = strings.Join(strings.Fields(text), " ")
	if e.maxContentChars > 0 && utf8.RuneCountInString(text) > e.maxContentChars {
		runes := []rune(text)
		text = string(runes[:e.maxContentChars]) + "..."
	}
	return text
}
