package domain

import (
	"errors"
	"time"
)

// ErrConfig marks missing or invalid configuration, e.g. absent credentials.
// Errors of this kind are never retried.
var ErrConfig = errors.New("configuration error")

// RawNews represents a fetched feed entry waiting for enrichment
type RawNews struct {
	ID             int64     `json:"id"`
	SourceID       int64     `json:"source_id"`
	URL            string    `json:"url"`
	Title          string    `json:"title_raw"`
	Content        string    `json:"content_raw"`
	Published      time.Time `json:"published_at"`
	IngestedAt     time.Time `json:"ingested_at"`
	Processed      bool      `json:"processed"`
	EnrichAttempts int       `json:"enrich_attempts"`
	LastError      string    `json:"last_error,omitempty"`
}

// Category is the closed set of article categories
type Category string

// article categories
const (
	CategoryProduct     Category = "product"
	CategoryFunding     Category = "funding"
	CategoryPartnership Category = "partnership"
	CategoryPolicy      Category = "policy"
	CategoryOther       Category = "other"
)

// Categories lists all valid article categories
var Categories = []Category{CategoryProduct, CategoryFunding, CategoryPartnership, CategoryPolicy, CategoryOther}

// Valid reports whether the category belongs to the closed set
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// EnrichedArticle is the validated output of the enrichment client, kept in memory only
type EnrichedArticle struct {
	Title           string
	Summary         string
	Category        Category
	Tags            []string
	ImportanceScore int
	CompanyName     *string
	CompanyWebsite  *string
}

// Article represents a persisted enriched news item
type Article struct {
	ID              int64     `json:"id"`
	SourceID        int64     `json:"source_id"`
	CompanyID       *int64    `json:"company_id"`
	RawNewsID       int64     `json:"-"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary_ai"`
	Category        Category  `json:"category"`
	Tags            []string  `json:"robot_tags"`
	ImportanceScore int       `json:"importance_score"`
	Published       time.Time `json:"published_at"`
	CreatedAt       time.Time `json:"created_at"`

	// joined data, populated by read queries
	SourceName  string `json:"source_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// ArticleFilter represents filtering criteria for articles
type ArticleFilter struct {
	Query     string
	Category  string
	Tag       string
	CompanyID int64
	SourceID  int64
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

// EnrichmentResult reports what was stored for one successfully enriched raw news entry
type EnrichmentResult struct {
	Article        *Article
	ArticleCreated bool
	Company        *Company // nil if the enrichment named no company
	CompanyCreated bool
}
