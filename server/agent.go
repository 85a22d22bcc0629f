package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/robohub/pkg/domain"
)

const (
	agentLookback    = 7 * 24 * time.Hour
	agentMaxArticles = 10
)

type agentQueryRequest struct {
	UserQuery string `json:"userQuery"`
	DateRange *struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"dateRange"`
}

type agentQueryResponse struct {
	Answer        string `json:"answer"`
	ArticlesCount int    `json:"context_articles_count"`
}

// agentQueryHandler answers a question over recent articles, POST /api/agent/query
func (s *Server) agentQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req agentQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		lgr.Printf("[WARN] failed to decode agent query: %v", err)
		renderError(w, r, "Failed to process agent query", http.StatusInternalServerError)
		return
	}

	question := strings.TrimSpace(req.UserQuery)
	if question == "" {
		renderError(w, r, `The field "userQuery" is required.`, http.StatusBadRequest)
		return
	}

	var from, to time.Time
	if req.DateRange != nil {
		from, to = parseDate(req.DateRange.From), parseDate(req.DateRange.To)
	}
	now := time.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = now.Add(-agentLookback)
	}
	if from.After(to) {
		renderError(w, r, `Invalid dateRange. The "from" date must be earlier than "to".`, http.StatusBadRequest)
		return
	}

	articles, _, err := s.store.ListArticles(r.Context(), domain.ArticleFilter{
		Query: question, From: from, To: to, Limit: agentMaxArticles,
	})
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch articles for agent query: %v", err)
		renderError(w, r, "Failed to process agent query", http.StatusInternalServerError)
		return
	}

	answer, err := s.agent.Answer(r.Context(), question, articles)
	if err != nil {
		lgr.Printf("[ERROR] failed to process agent query: %v", err)
		renderError(w, r, "Failed to process agent query", http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, agentQueryResponse{Answer: answer, ArticlesCount: len(articles)})
}
