package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/robohub/pkg/domain"
)

// maxErrorLen limits the stored enrichment error message
const maxErrorLen = 1000

// RawNewsRepository handles raw feed entries
type RawNewsRepository struct {
	db *sqlx.DB
}

// rawNewsSQL represents a raw news entry for SQL operations
type rawNewsSQL struct {
	ID             int64     `db:"id"`
	SourceID       int64     `db:"source_id"`
	URL            string    `db:"url"`
	Title          string    `db:"title_raw"`
	Content        string    `db:"content_raw"`
	Published      time.Time `db:"published_at"`
	IngestedAt     time.Time `db:"ingested_at"`
	Processed      bool      `db:"processed"`
	EnrichAttempts int       `db:"enrich_attempts"`
	LastError      string    `db:"last_error"`
}

// NewRawNewsRepository creates a new raw news repository
func NewRawNewsRepository(db *sqlx.DB) *RawNewsRepository {
	return &RawNewsRepository{db: db}
}

// RawNewsExists checks if an entry with the url is already stored
func (r *RawNewsRepository) RawNewsExists(ctx context.Context, url string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM raw_news WHERE url = ?", url); err != nil {
		return false, fmt.Errorf("check raw news: %w", err)
	}
	return count > 0, nil
}

// CreateRawNews inserts the entry unless one with the same url exists.
// Returns true and sets item.ID if a row was inserted.
func (r *RawNewsRepository) CreateRawNews(ctx context.Context, item *domain.RawNews) (bool, error) {
	if item.IngestedAt.IsZero() {
		item.IngestedAt = time.Now()
	}
	var created bool
	err := withLockRetry(ctx, "create raw news", func() error {
		query := `
			INSERT OR IGNORE INTO raw_news (source_id, url, title_raw, content_raw, published_at, ingested_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		res, err := r.db.ExecContext(ctx, query, item.SourceID, item.URL, item.Title, item.Content,
			utc(item.Published), utc(item.IngestedAt))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get insert id: %w", err)
		}
		item.ID, created = id, true
		return nil
	})
	return created, err
}

// ListUnprocessed returns entries waiting for enrichment, oldest first.
// Entries that failed maxAttempts times or more are skipped, maxAttempts <= 0 disables the limit.
func (r *RawNewsRepository) ListUnprocessed(ctx context.Context, maxAttempts int) ([]domain.RawNews, error) {
	query := `
		SELECT id, source_id, url, title_raw, content_raw, published_at, ingested_at, processed, enrich_attempts, last_error
		FROM raw_news
		WHERE processed = 0 AND (? <= 0 OR enrich_attempts < ?)
		ORDER BY id
	`
	var rows []rawNewsSQL
	if err := r.db.SelectContext(ctx, &rows, query, maxAttempts, maxAttempts); err != nil {
		return nil, fmt.Errorf("list unprocessed: %w", err)
	}
	res := make([]domain.RawNews, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.RawNews(row))
	}
	return res, nil
}

// GetRawNews returns the entry by id
func (r *RawNewsRepository) GetRawNews(ctx context.Context, id int64) (*domain.RawNews, error) {
	var row rawNewsSQL
	query := `
		SELECT id, source_id, url, title_raw, content_raw, published_at, ingested_at, processed, enrich_attempts, last_error
		FROM raw_news WHERE id = ?
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get raw news: %w", err)
	}
	res := domain.RawNews(row)
	return &res, nil
}

// MarkProcessed flags the entry as enriched
func (r *RawNewsRepository) MarkProcessed(ctx context.Context, id int64) error {
	return withLockRetry(ctx, "mark processed", func() error {
		return markProcessed(ctx, r.db, id)
	})
}

func markProcessed(ctx context.Context, ex sqlx.ExecerContext, id int64) error {
	if _, err := ex.ExecContext(ctx, "UPDATE raw_news SET processed = 1, last_error = '' WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// RecordEnrichFailure increments the attempt counter and keeps the error message.
// The entry stays unprocessed.
func (r *RawNewsRepository) RecordEnrichFailure(ctx context.Context, id int64, errMsg string) error {
	if len(errMsg) > maxErrorLen {
		errMsg = errMsg[:maxErrorLen]
	}
	return withLockRetry(ctx, "record enrich failure", func() error {
		query := "UPDATE raw_news SET enrich_attempts = enrich_attempts + 1, last_error = ? WHERE id = ?"
		_, err := r.db.ExecContext(ctx, query, errMsg, id)
		return err
	})
}
