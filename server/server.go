// Package server exposes the batch trigger endpoint and read APIs over the stored news, companies and tokens
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/robohub/pkg/batch"
	"github.com/umputun/robohub/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/batch_runner.go -pkg mocks -skip-ensure -fmt goimports . BatchRunner
//go:generate moq -out mocks/agent.go -pkg mocks -skip-ensure -fmt goimports . Agent

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	store   Store
	runner  BatchRunner
	agent   Agent
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Store provides read access to stored data
type Store interface {
	ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error)
	ListCompanies(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error)
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
	CompanyArticles(ctx context.Context, companyID int64) ([]domain.Article, error)
	LatestSnapshot(ctx context.Context) ([]domain.TokenSnapshot, error)
	ListSources(ctx context.Context) ([]domain.Source, error)
}

// BatchRunner runs one daily batch
type BatchRunner interface {
	Run(ctx context.Context) batch.Result
}

// Agent answers questions using articles as context
type Agent interface {
	Answer(ctx context.Context, question string, articles []domain.Article) (string, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetCronSecret() string
}

// New initializes a new server instance
func New(cfg ConfigProvider, store Store, runner BatchRunner, agent Agent, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		store:   store,
		runner:  runner,
		agent:   agent,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       30 * time.Second,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("robohub", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /cron/daily-batch", s.dailyBatchHandler)
		r.HandleFunc("GET /news", s.newsHandler)
		r.HandleFunc("GET /news/rss", s.newsRSSHandler)
		r.HandleFunc("GET /sources", s.sourcesHandler)
		r.HandleFunc("GET /sources/opml", s.sourcesOPMLHandler)
		r.HandleFunc("GET /companies", s.companiesHandler)
		r.HandleFunc("GET /companies/{id}", s.companyHandler)
		r.HandleFunc("GET /crypto/robotics", s.tokensHandler)
		r.HandleFunc("POST /agent/query", s.agentQueryHandler)
	})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, msg string, code int) {
	renderJSON(w, r, code, rest.JSON{"error": msg})
}
