package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/robohub/pkg/domain"
)

// SnapshotRepository handles market snapshot operations
type SnapshotRepository struct {
	db *sqlx.DB
}

// snapshotSQL represents a token snapshot row
type snapshotSQL struct {
	ID           int64          `db:"id"`
	ProviderID   string         `db:"coingecko_id"`
	Symbol       string         `db:"symbol"`
	Name         string         `db:"name"`
	Image        sql.NullString `db:"image"`
	PriceUSD     float64        `db:"price_usd"`
	MarketCapUSD float64        `db:"market_cap_usd"`
	Volume24hUSD float64        `db:"volume_24h_usd"`
	Change1hPct  float64        `db:"change_1h_pct"`
	Change24hPct float64        `db:"change_24h_pct"`
	Change7dPct  float64        `db:"change_7d_pct"`
	Rank         int            `db:"market_rank"`
	TakenAt      time.Time      `db:"taken_at"`
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// InsertSnapshot stores all quotes with the shared takenAt in one transaction.
// Returns the number of stored rows, nothing is stored on error.
func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, takenAt time.Time, quotes []domain.TokenQuote) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}
	takenAt = utc(takenAt)
	err := inTx(ctx, r.db, "insert snapshot", func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO token_snapshots (coingecko_id, symbol, name, image, price_usd, market_cap_usd,
				volume_24h_usd, change_1h_pct, change_24h_pct, change_7d_pct, market_rank, taken_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, q := range quotes {
			if _, err := stmt.ExecContext(ctx, q.ProviderID, q.Symbol, q.Name, q.Image, q.PriceUSD, q.MarketCapUSD,
				q.Volume24hUSD, q.Change1hPct, q.Change24hPct, q.Change7dPct, q.Rank, takenAt); err != nil {
				return fmt.Errorf("insert token %s: %w", q.ProviderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(quotes), nil
}

// LatestSnapshot returns the rows of the most recent snapshot ordered by rank, empty if none stored
func (r *SnapshotRepository) LatestSnapshot(ctx context.Context) ([]domain.TokenSnapshot, error) {
	query := `
		SELECT id, coingecko_id, symbol, name, image, price_usd, market_cap_usd, volume_24h_usd,
			change_1h_pct, change_24h_pct, change_7d_pct, market_rank, taken_at
		FROM token_snapshots
		WHERE taken_at = (SELECT MAX(taken_at) FROM token_snapshots)
		ORDER BY market_rank ASC, id ASC
	`
	var rows []snapshotSQL
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	res := make([]domain.TokenSnapshot, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.TokenSnapshot{
			ID: row.ID,
			TokenQuote: domain.TokenQuote{
				ProviderID:   row.ProviderID,
				Symbol:       row.Symbol,
				Name:         row.Name,
				Image:        nullString(row.Image),
				PriceUSD:     row.PriceUSD,
				MarketCapUSD: row.MarketCapUSD,
				Volume24hUSD: row.Volume24hUSD,
				Change1hPct:  row.Change1hPct,
				Change24hPct: row.Change24hPct,
				Change7dPct:  row.Change7dPct,
				Rank:         row.Rank,
			},
			TakenAt: row.TakenAt,
		})
	}
	return res, nil
}
