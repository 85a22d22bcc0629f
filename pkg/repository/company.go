package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/robohub/pkg/domain"
)

const defaultCompanyLimit = 50

// CompanyRepository handles company operations
type CompanyRepository struct {
	db *sqlx.DB
}

// companySQL represents a company for SQL operations
type companySQL struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	Website    sql.NullString `db:"website"`
	Country    sql.NullString `db:"country"`
	Categories jsonStrings    `db:"categories"`
	Summary    sql.NullString `db:"summary_ai"`
	LastSeenAt time.Time      `db:"last_seen_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

const companyColumns = "c.id, c.name, c.website, c.country, c.categories, c.summary_ai, c.last_seen_at, c.created_at"

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// UpsertCompany creates the company or refreshes last_seen_at and website of the existing one.
// Returns true if the company was created.
func (r *CompanyRepository) UpsertCompany(ctx context.Context, name string, website *string, seenAt time.Time) (*domain.Company, bool, error) {
	var res *domain.Company
	var created bool
	err := inTx(ctx, r.db, "upsert company", func(tx *sqlx.Tx) error {
		var err error
		res, created, err = upsertCompanyTx(ctx, tx, name, website, seenAt)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return res, created, nil
}

// upsertCompanyTx is an insert with ON CONFLICT fallback to update, so concurrent
// enrichments naming the same company never produce a duplicate
func upsertCompanyTx(ctx context.Context, tx *sqlx.Tx, name string, website *string, seenAt time.Time) (*domain.Company, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New("company name is empty")
	}
	seenAt = utc(seenAt)

	query := `
		INSERT INTO companies (name, website, categories, last_seen_at, created_at)
		VALUES (?, ?, '[]', ?, ?)
		ON CONFLICT(name) DO NOTHING
	`
	res, err := tx.ExecContext(ctx, query, name, website, seenAt, seenAt)
	if err != nil {
		return nil, false, fmt.Errorf("insert company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	created := n > 0
	if !created {
		update := "UPDATE companies SET website = COALESCE(?, website), last_seen_at = ? WHERE name = ?"
		if _, err := tx.ExecContext(ctx, update, website, seenAt, name); err != nil {
			return nil, false, fmt.Errorf("update company: %w", err)
		}
	}

	var row companySQL
	if err := tx.GetContext(ctx, &row, "SELECT "+companyColumns+" FROM companies c WHERE c.name = ?", name); err != nil {
		return nil, false, fmt.Errorf("get company: %w", err)
	}
	company := row.toDomain()
	return &company, created, nil
}

// GetCompany returns the company by id or ErrNotFound
func (r *CompanyRepository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	var row companySQL
	if err := r.db.GetContext(ctx, &row, "SELECT "+companyColumns+" FROM companies c WHERE c.id = ?", id); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	res := row.toDomain()
	return &res, nil
}

// ListCompanies returns companies matching the filter, most recently seen first
func (r *CompanyRepository) ListCompanies(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	qb := sq.Select(companyColumns).From("companies c")

	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + search + "%"
		qb = qb.Where(sq.Or{sq.Like{"c.name": pattern}, sq.Like{"c.summary_ai": pattern}})
	}
	if filter.Category != "" {
		qb = qb.Where(sq.Expr("EXISTS (SELECT 1 FROM json_each(c.categories) WHERE json_each.value = ?)", filter.Category))
	}
	if filter.Country != "" {
		qb = qb.Where(sq.Expr("LOWER(c.country) = LOWER(?)", filter.Country))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCompanyLimit
	}
	qb = qb.OrderBy("c.last_seen_at DESC", "c.name ASC").Limit(uint64(limit)) //nolint:gosec // limit is positive
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset)) //nolint:gosec // offset is positive
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build companies query: %w", err)
	}

	var rows []companySQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	res := make([]domain.Company, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

func (c companySQL) toDomain() domain.Company {
	return domain.Company{
		ID:         c.ID,
		Name:       c.Name,
		Website:    nullString(c.Website),
		Country:    nullString(c.Country),
		Categories: []string(c.Categories),
		Summary:    nullString(c.Summary),
		LastSeenAt: c.LastSeenAt,
		CreatedAt:  c.CreatedAt,
	}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
