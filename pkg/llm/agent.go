package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/robohub/pkg/config"
	"github.com/umputun/robohub/pkg/domain"
)

const agentSystemPrompt = `You are Robotics Hub, a helpful agent that answers user questions using the supplied context. Reference the context when available and reply concisely.`

const agentContextPrompt = `Act as the Robotics Intelligence Agent. Answer only with the data in CONTEXT. If the answer is not there, say: "I could not find enough information in the recent data to answer this question."`

const agentNoArticles = `No recent articles are available for the requested period. Reply that the context has no data.`

// Agent answers free-form questions about recent robotics news
type Agent struct {
	completer
	model string
}

// NewAgent makes an agent using the shared chat client
func NewAgent(chat ChatClient, cfg config.LLMConfig) *Agent {
	return &Agent{completer: newCompleter(chat, cfg.Retry), model: cfg.Model}
}

// Answer replies to the question using the given articles as the only context
func (a *Agent) Answer(ctx context.Context, question string, articles []domain.Article) (string, error) {
	if a.chat == nil {
		return "", fmt.Errorf("llm api key is not set: %w", domain.ErrConfig)
	}

	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: agentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Context:\n%s\n\nUser question: %s", AgentContext(articles), question)},
		},
	}

	answer, err := a.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("agent query failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// AgentContext renders articles as the CONTEXT block of the agent prompt
func AgentContext(articles []domain.Article) string {
	var sb strings.Builder
	sb.WriteString(agentContextPrompt)
	sb.WriteString("\n\nCONTEXT:\n")
	if len(articles) == 0 {
		sb.WriteString(agentNoArticles)
		return sb.String()
	}
	for i, a := range articles {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		source := a.SourceName
		if source == "" {
			source = "Unknown"
		}
		fmt.Fprintf(&sb, "Article %d:\nTitle: %s\nSummary: %s\nSource: %s\nPublished at: %s\nImportance score: %d",
			i+1, a.Title, a.Summary, source, a.Published.UTC().Format(time.RFC3339), a.ImportanceScore)
	}
	return sb.String()
}
