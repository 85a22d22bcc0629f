package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/robohub/pkg/domain"
)

// SourceRepository handles feed source operations
type SourceRepository struct {
	db *sqlx.DB
}

// sourceSQL represents a source for SQL operations
type sourceSQL struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	URL       string    `db:"url"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// UpsertSource inserts a source or updates name and type of the existing one with the same url.
// Returns true if a new source was created.
func (r *SourceRepository) UpsertSource(ctx context.Context, src domain.Source) (created bool, err error) {
	err = inTx(ctx, r.db, "upsert source", func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM sources WHERE url = ?", src.URL); err != nil {
			return fmt.Errorf("check source: %w", err)
		}
		query := `
			INSERT INTO sources (name, url, type, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(url) DO UPDATE SET name = excluded.name, type = excluded.type
		`
		if _, err := tx.ExecContext(ctx, query, src.Name, src.URL, src.Type, utc(time.Now())); err != nil {
			return err
		}
		created = count == 0
		return nil
	})
	return created, err
}

// ListSources returns all sources ordered by id
func (r *SourceRepository) ListSources(ctx context.Context) ([]domain.Source, error) {
	var rows []sourceSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, name, url, type, created_at FROM sources ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	res := make([]domain.Source, 0, len(rows))
	for _, s := range rows {
		res = append(res, domain.Source{ID: s.ID, Name: s.Name, URL: s.URL, Type: s.Type, CreatedAt: s.CreatedAt})
	}
	return res, nil
}
