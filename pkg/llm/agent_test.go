package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/robohub/pkg/config"
	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/llm/mocks"
)

func TestAgent_Answer(t *testing.T) {
	articles := []domain.Article{
		{Title: "Acme raises $20M", Summary: "Series A for Acme.", SourceName: "RoboHub", ImportanceScore: 80,
			Published: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)},
		{Title: "New gripper", Summary: "Soft gripper launch.", ImportanceScore: 40,
			Published: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
	}

	t.Run("answer with context", func(t *testing.T) {
		chat := &mocks.ChatClientMock{
			CreateChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return completionResponse("  Acme raised $20M.  "), nil
			},
		}
		agent := NewAgent(chat, config.LLMConfig{Model: "test-model"})
		answer, err := agent.Answer(context.Background(), "Who raised money?", articles)
		require.NoError(t, err)
		assert.Equal(t, "Acme raised $20M.", answer)

		calls := chat.CreateChatCompletionCalls()
		require.Len(t, calls, 1)
		req := calls[0].Req
		assert.Equal(t, "test-model", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 0.0001)
		assert.Nil(t, req.ResponseFormat)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "User question: Who raised money?")
		assert.Contains(t, req.Messages[1].Content, "Article 1:\nTitle: Acme raises $20M")
		assert.Contains(t, req.Messages[1].Content, "Source: RoboHub")
		assert.Contains(t, req.Messages[1].Content, "Article 2:\nTitle: New gripper")
		assert.Contains(t, req.Messages[1].Content, "Source: Unknown")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := NewAgent(nil, config.LLMConfig{}).Answer(context.Background(), "q", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfig))
	})

	t.Run("llm failure", func(t *testing.T) {
		chat := &mocks.ChatClientMock{
			CreateChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}
			},
		}
		_, err := NewAgent(chat, config.LLMConfig{}).Answer(context.Background(), "q", articles)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agent query failed")
		assert.Len(t, chat.CreateChatCompletionCalls(), 1)
	})
}

func TestAgentContext(t *testing.T) {
	ctx := AgentContext(nil)
	assert.Contains(t, ctx, "CONTEXT:\n")
	assert.Contains(t, ctx, "No recent articles are available")

	ctx = AgentContext([]domain.Article{{Title: "T", Summary: "S", SourceName: "Src", ImportanceScore: 5,
		Published: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}})
	assert.Contains(t, ctx, "Article 1:\nTitle: T\nSummary: S\nSource: Src\nPublished at: 2024-01-02T03:04:05Z\nImportance score: 5")
}
