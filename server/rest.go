package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/repository"
)

const (
	defaultNewsLimit      = 20
	defaultCompaniesLimit = 50
	maxPageLimit          = 200
)

// companyResponse is a company with its articles
type companyResponse struct {
	domain.Company
	Articles []domain.Article `json:"articles"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// newsHandler returns a page of articles and the total count, GET /api/news
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := articleFilter(r, defaultNewsLimit)
	if err != nil {
		renderError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	articles, total, err := s.store.ListArticles(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch articles: %v", err)
		renderError(w, r, "Failed to fetch articles", http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"articles": nonNil(articles), "total": total})
}

// articleFilter builds the article filter from query parameters
func articleFilter(r *http.Request, defaultLimit int) (domain.ArticleFilter, error) {
	q := r.URL.Query()
	filter := domain.ArticleFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		From:     parseDate(q.Get("from")),
		To:       parseDate(q.Get("to")),
		Limit:    parseLimit(q.Get("limit"), defaultLimit),
		Offset:   parseNumber(q.Get("offset"), 0),
	}

	var err error
	if filter.CompanyID, err = parseID(q.Get("companyId")); err != nil {
		return filter, errors.New("invalid companyId")
	}
	if filter.SourceID, err = parseID(q.Get("sourceId")); err != nil {
		return filter, errors.New("invalid sourceId")
	}
	return filter, nil
}

// companiesHandler returns companies, GET /api/companies
func (s *Server) companiesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CompanyFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Country:  q.Get("country"),
		Limit:    parseLimit(q.Get("limit"), defaultCompaniesLimit),
		Offset:   parseNumber(q.Get("offset"), 0),
	}

	companies, err := s.store.ListCompanies(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch companies: %v", err)
		renderError(w, r, "Failed to fetch companies", http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, nonNil(companies))
}

// companyHandler returns a company with its articles, GET /api/companies/{id}
func (s *Server) companyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(w, r, "Company not found", http.StatusNotFound)
		return
	}

	company, err := s.store.GetCompany(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, "Company not found", http.StatusNotFound)
		return
	}
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch company %d: %v", id, err)
		renderError(w, r, "Failed to fetch company", http.StatusInternalServerError)
		return
	}

	articles, err := s.store.CompanyArticles(r.Context(), id)
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch articles of company %d: %v", id, err)
		renderError(w, r, "Failed to fetch company", http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, companyResponse{Company: *company, Articles: nonNil(articles)})
}

// tokensHandler returns the latest robotics token snapshot, GET /api/crypto/robotics
func (s *Server) tokensHandler(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.store.LatestSnapshot(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch robotics token snapshot: %v", err)
		renderError(w, r, "Failed to fetch robotics token snapshot", http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, nonNil(tokens))
}

// parseNumber returns a non-negative integer or fallback
func parseNumber(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseLimit is parseNumber capped at maxPageLimit
func parseLimit(value string, fallback int) int {
	return min(parseNumber(value, fallback), maxPageLimit)
}

// parseDate returns zero time for empty or unparsable values
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseID returns 0 for empty value
func parseID(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

// nonNil keeps empty lists encoded as [] instead of null
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
