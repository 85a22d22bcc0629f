// Package batch runs the daily pipeline: seed sources, ingest feeds, enrich raw news and
// snapshot robotics token prices. Each stage isolates its own failures.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/robohub/pkg/domain"
)

//go:generate moq -out mocks/source_store.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/raw_news_store.go -pkg mocks -skip-ensure -fmt goimports . RawNewsStore
//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/snapshot_store.go -pkg mocks -skip-ensure -fmt goimports . SnapshotStore
//go:generate moq -out mocks/feed_fetcher.go -pkg mocks -skip-ensure -fmt goimports . FeedFetcher
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/market_fetcher.go -pkg mocks -skip-ensure -fmt goimports . MarketFetcher
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// run messages
const (
	MsgCompleted = "Daily batch completed successfully"
	MsgFailed    = "Daily batch failed"
)

// SourceStore keeps feed sources
type SourceStore interface {
	UpsertSource(ctx context.Context, src domain.Source) (bool, error)
	ListSources(ctx context.Context) ([]domain.Source, error)
}

// RawNewsStore keeps fetched feed entries
type RawNewsStore interface {
	RawNewsExists(ctx context.Context, url string) (bool, error)
	CreateRawNews(ctx context.Context, item *domain.RawNews) (bool, error)
	ListUnprocessed(ctx context.Context, maxAttempts int) ([]domain.RawNews, error)
	RecordEnrichFailure(ctx context.Context, id int64, errMsg string) error
}

// ArticleStore persists enrichment outcomes
type ArticleStore interface {
	CompleteEnrichment(ctx context.Context, raw domain.RawNews, enriched domain.EnrichedArticle, now time.Time) (domain.EnrichmentResult, error)
}

// SnapshotStore persists market snapshots
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, takenAt time.Time, quotes []domain.TokenQuote) (int, error)
}

// FeedFetcher fetches and normalizes a feed
type FeedFetcher interface {
	Fetch(ctx context.Context, url string, fallback []byte) ([]domain.RawItem, error)
}

// Enricher derives structured article fields from a raw entry
type Enricher interface {
	Enrich(ctx context.Context, raw domain.RawNews) (domain.EnrichedArticle, error)
}

// MarketFetcher returns ranked robotics token quotes
type MarketFetcher interface {
	FetchTokens(ctx context.Context) ([]domain.TokenQuote, error)
}

// Extractor retrieves the main text of an article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Params holds runner dependencies and settings
type Params struct {
	Sources   SourceStore
	RawNews   RawNewsStore
	Articles  ArticleStore
	Snapshots SnapshotStore
	Fetcher   FeedFetcher
	Enricher  Enricher
	Market    MarketFetcher
	Extractor Extractor // optional, used for entries with short bodies

	Seed              []domain.Source   // seed catalog, DefaultSources if empty
	Fallbacks         map[string][]byte // fallback feed content by source url
	Workers           int               // concurrent sources and enrichments, default 4
	MaxEnrichAttempts int               // entries failed this many times are skipped, <= 0 disables the limit
	MinTextLength     int               // body length below which Extractor is called
	Now               func() time.Time
}

// Runner executes batch runs
type Runner struct {
	Params
}

// NewRunner makes a runner with defaults applied
func NewRunner(p Params) *Runner {
	if len(p.Seed) == 0 {
		p.Seed = DefaultSources
	}
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Runner{Params: p}
}

// Run executes seed, ingest, enrich and snapshot stages in order.
// Failures inside ingest, enrich and snapshot are logged into stats and don't stop the run,
// a seed failure aborts the remaining stages.
func (r *Runner) Run(ctx context.Context) Result {
	st := newCollector()
	started := time.Now()

	st.info("Starting seed sources...")
	if err := guard(func() error { return r.seed(ctx) }); err != nil {
		st.failure("Seed sources failed: %v", err)
		lgr.Printf("[ERROR] daily batch failed: %v", err)
		return Result{Success: false, Message: MsgFailed, Stats: st.snapshot()}
	}
	st.info("Seed sources ensured.")

	st.info("Starting RSS ingestion...")
	if err := guard(func() error { return r.ingest(ctx, st) }); err != nil {
		st.failure("RSS ingestion failed: %v", err)
	}
	st.info("RSS ingestion complete. New raw news: %d", st.snapshot().NewRawNews)

	st.info("Starting AI enrichment...")
	if err := guard(func() error { return r.enrich(ctx, st) }); err != nil {
		st.failure("AI enrichment failed: %v", err)
	}
	stats := st.snapshot()
	st.info("AI enrichment complete. New articles: %d, New companies: %d", stats.NewArticles, stats.NewCompanies)

	st.info("Starting CoinGecko snapshot...")
	if err := guard(func() error { return r.snapshot(ctx, st) }); err != nil {
		st.failure("CoinGecko snapshot failed: %v", err)
	}
	st.info("CoinGecko snapshot complete. New tokens: %d", st.snapshot().TokenSnapshots)

	lgr.Printf("[INFO] daily batch completed in %v", time.Since(started).Round(time.Millisecond))
	return Result{Success: true, Message: MsgCompleted, Stats: st.snapshot()}
}

// guard turns a panic inside a stage into an error
func guard(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}

// seed upserts the seed catalog by url
func (r *Runner) seed(ctx context.Context) error {
	created := 0
	for _, src := range r.Seed {
		ok, err := r.Sources.UpsertSource(ctx, src)
		if err != nil {
			return fmt.Errorf("seed source %s: %w", src.Name, err)
		}
		if ok {
			created++
		}
	}
	lgr.Printf("[DEBUG] seed complete, %d source(s) created", created)
	return nil
}

// ingest fetches all sources concurrently, each source failure is logged separately
func (r *Runner) ingest(ctx context.Context, st *collector) error {
	sources, err := r.Sources.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for _, src := range sources {
		g.Go(func() error {
			var n int
			err := guard(func() (err error) {
				n, err = r.ingestSource(ctx, src)
				return err
			})
			st.add(func(s *Stats) { s.NewRawNews += n })
			if err != nil {
				st.failure("RSS ingestion failed for source %s: %v", src.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ingestSource stores new entries of a single source, returns the number of inserted entries
func (r *Runner) ingestSource(ctx context.Context, src domain.Source) (int, error) {
	items, err := r.Fetcher.Fetch(ctx, src.URL, r.Fallbacks[src.URL])
	if err != nil {
		return 0, err
	}

	created := 0
	for _, item := range items {
		exists, err := r.RawNews.RawNewsExists(ctx, item.URL)
		if err != nil {
			return created, fmt.Errorf("check %s: %w", item.URL, err)
		}
		if exists {
			continue
		}
		raw := &domain.RawNews{
			SourceID:   src.ID,
			URL:        item.URL,
			Title:      item.Title,
			Content:    item.Content,
			Published:  item.Published,
			IngestedAt: r.Now(),
		}
		ok, err := r.RawNews.CreateRawNews(ctx, raw)
		if err != nil {
			return created, fmt.Errorf("store %s: %w", item.URL, err)
		}
		if ok {
			created++
		}
	}
	lgr.Printf("[DEBUG] source %s: %d item(s), %d new", src.Name, len(items), created)
	return created, nil
}

// enrich processes unprocessed entries with bounded concurrency. A configuration error stops
// the stage, any other failure is recorded on the entry and the next one is processed.
func (r *Runner) enrich(ctx context.Context, st *collector) error {
	items, err := r.RawNews.ListUnprocessed(ctx, r.MaxEnrichAttempts)
	if err != nil {
		return fmt.Errorf("list unprocessed: %w", err)
	}
	lgr.Printf("[DEBUG] %d raw news item(s) to enrich", len(items))

	var stopped atomic.Bool
	var stopOnce sync.Once
	var configErr error

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for _, raw := range items {
		g.Go(func() error {
			if stopped.Load() || ctx.Err() != nil {
				return nil
			}
			var res domain.EnrichmentResult
			err := guard(func() (err error) {
				res, err = r.enrichItem(ctx, raw)
				return err
			})
			if errors.Is(err, domain.ErrConfig) {
				stopOnce.Do(func() {
					stopped.Store(true)
					configErr = err
				})
				return nil
			}
			if err != nil {
				st.failure("AI enrichment failed for raw news %d: %v", raw.ID, err)
				if rerr := r.RawNews.RecordEnrichFailure(ctx, raw.ID, err.Error()); rerr != nil {
					lgr.Printf("[WARN] failed to record enrichment failure for raw news %d: %v", raw.ID, rerr)
				}
				return nil
			}
			st.add(func(s *Stats) {
				if res.ArticleCreated {
					s.NewArticles++
				}
				if res.CompanyCreated {
					s.NewCompanies++
				}
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return configErr
}

// enrichItem enriches one entry and stores company, article and processed flag together
func (r *Runner) enrichItem(ctx context.Context, raw domain.RawNews) (domain.EnrichmentResult, error) {
	if r.Extractor != nil && utf8.RuneCountInString(strings.TrimSpace(raw.Content)) < r.MinTextLength {
		text, err := r.Extractor.Extract(ctx, raw.URL)
		switch {
		case err != nil:
			lgr.Printf("[WARN] failed to extract content for raw news %d from %s: %v", raw.ID, raw.URL, err)
		case utf8.RuneCountInString(text) > utf8.RuneCountInString(raw.Content):
			raw.Content = text
		}
	}

	enriched, err := r.Enricher.Enrich(ctx, raw)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}
	res, err := r.Articles.CompleteEnrichment(ctx, raw, enriched, r.Now())
	if err != nil {
		return domain.EnrichmentResult{}, fmt.Errorf("store enrichment: %w", err)
	}
	return res, nil
}

// snapshot stores one market snapshot with a shared timestamp, zero tokens is a no-op
func (r *Runner) snapshot(ctx context.Context, st *collector) error {
	quotes, err := r.Market.FetchTokens(ctx)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		return nil
	}
	n, err := r.Snapshots.InsertSnapshot(ctx, r.Now(), quotes)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	st.add(func(s *Stats) { s.TokenSnapshots += n })
	return nil
}
