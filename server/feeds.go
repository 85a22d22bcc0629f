package server

import (
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/robohub/pkg/feed"
)

// newsRSSHandler republishes the latest enriched articles as RSS, GET /api/news/rss
func (s *Server) newsRSSHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := articleFilter(r, defaultNewsLimit)
	if err != nil {
		renderError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	articles, _, err := s.store.ListArticles(r.Context(), filter)
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch articles for rss: %v", err)
		http.Error(w, "Failed to fetch articles", http.StatusInternalServerError)
		return
	}

	rss, err := feed.NewGenerator(baseURL(r)).GenerateRSS(articles, filter.Category, time.Now().UTC())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate rss: %v", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

// sourcesHandler returns the feed catalog, GET /api/sources
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.ListSources(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch sources: %v", err)
		renderError(w, r, "Failed to fetch sources", http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, nonNil(sources))
}

// sourcesOPMLHandler exports the feed catalog as OPML, GET /api/sources/opml
func (s *Server) sourcesOPMLHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.ListSources(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch sources for opml: %v", err)
		http.Error(w, "Failed to fetch sources", http.StatusInternalServerError)
		return
	}

	opml, err := feed.NewGenerator(baseURL(r)).GenerateOPML(sources, time.Now().UTC())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate opml: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="robohub-sources.opml"`)
	_, _ = w.Write([]byte(opml))
}

// baseURL returns the external address of the server as seen by the client
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
