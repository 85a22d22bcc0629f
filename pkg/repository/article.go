package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/robohub/pkg/domain"
)

const defaultArticleLimit = 20

// ArticleRepository handles enriched article operations
type ArticleRepository struct {
	db *sqlx.DB
}

// articleSQL represents an article with joined source and company names
type articleSQL struct {
	ID              int64         `db:"id"`
	SourceID        int64         `db:"source_id"`
	CompanyID       sql.NullInt64 `db:"company_id"`
	RawNewsID       int64         `db:"raw_news_id"`
	URL             string        `db:"url"`
	Title           string        `db:"title"`
	Summary         string        `db:"summary_ai"`
	Category        string        `db:"category"`
	Tags            jsonStrings   `db:"robot_tags"`
	ImportanceScore int           `db:"importance_score"`
	Published       time.Time     `db:"published_at"`
	CreatedAt       time.Time     `db:"created_at"`
	SourceName      string        `db:"source_name"`
	CompanyName     string        `db:"company_name"`
}

var articleColumns = []string{
	"a.id", "a.source_id", "a.company_id", "a.raw_news_id", "a.url", "a.title", "a.summary_ai",
	"a.category", "a.robot_tags", "a.importance_score", "a.published_at", "a.created_at",
	"COALESCE(s.name, '') AS source_name", "COALESCE(c.name, '') AS company_name",
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// CreateArticle inserts the article unless one exists for the same raw news entry.
// Returns true and sets article.ID if a row was inserted.
func (r *ArticleRepository) CreateArticle(ctx context.Context, article *domain.Article) (bool, error) {
	var created bool
	err := withLockRetry(ctx, "create article", func() error {
		var err error
		created, err = createArticle(ctx, r.db, article)
		return err
	})
	return created, err
}

// CompleteEnrichment stores the outcome of a successful enrichment in one transaction:
// upserts the named company, creates the article and marks the raw entry processed.
func (r *ArticleRepository) CompleteEnrichment(ctx context.Context, raw domain.RawNews, enriched domain.EnrichedArticle,
	now time.Time) (res domain.EnrichmentResult, err error) {
	err = inTx(ctx, r.db, "complete enrichment", func(tx *sqlx.Tx) error {
		res = domain.EnrichmentResult{}
		article := &domain.Article{
			SourceID:        raw.SourceID,
			RawNewsID:       raw.ID,
			URL:             raw.URL,
			Title:           enriched.Title,
			Summary:         enriched.Summary,
			Category:        enriched.Category,
			Tags:            enriched.Tags,
			ImportanceScore: enriched.ImportanceScore,
			Published:       raw.Published,
			CreatedAt:       now,
		}

		if enriched.CompanyName != nil && strings.TrimSpace(*enriched.CompanyName) != "" {
			company, created, err := upsertCompanyTx(ctx, tx, *enriched.CompanyName, enriched.CompanyWebsite, now)
			if err != nil {
				return err
			}
			article.CompanyID = &company.ID
			article.CompanyName = company.Name
			res.Company, res.CompanyCreated = company, created
		}

		created, err := createArticle(ctx, tx, article)
		if err != nil {
			return err
		}
		res.Article, res.ArticleCreated = article, created

		return markProcessed(ctx, tx, raw.ID)
	})
	return res, err
}

func createArticle(ctx context.Context, ex sqlx.ExecerContext, article *domain.Article) (bool, error) {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO articles (source_id, company_id, raw_news_id, url, title, summary_ai, category,
			robot_tags, importance_score, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(raw_news_id) DO NOTHING
	`
	res, err := ex.ExecContext(ctx, query, article.SourceID, article.CompanyID, article.RawNewsID, article.URL,
		article.Title, article.Summary, string(article.Category), jsonStrings(article.Tags), article.ImportanceScore,
		utc(article.Published), utc(article.CreatedAt))
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("get insert id: %w", err)
	}
	article.ID = id
	return true, nil
}

// ListArticles returns a page of articles matching the filter, newest first, and the total match count
func (r *ArticleRepository) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	conds := articleConditions(filter)

	countQB := sq.Select("COUNT(*)").From("articles a")
	for _, c := range conds {
		countQB = countQB.Where(c)
	}
	countQuery, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}
	qb := articleSelect()
	for _, c := range conds {
		qb = qb.Where(c)
	}
	qb = qb.OrderBy("a.published_at DESC", "a.id DESC").Limit(uint64(limit)) //nolint:gosec // limit is positive
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset)) //nolint:gosec // offset is positive
	}

	articles, err := r.selectArticles(ctx, qb)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// CompanyArticles returns all articles linked to the company, newest first
func (r *ArticleRepository) CompanyArticles(ctx context.Context, companyID int64) ([]domain.Article, error) {
	qb := articleSelect().Where(sq.Eq{"a.company_id": companyID}).OrderBy("a.published_at DESC", "a.id DESC")
	return r.selectArticles(ctx, qb)
}

// articleConditions translates the filter into where clauses on the articles table
func articleConditions(filter domain.ArticleFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + search + "%"
		conds = append(conds, sq.Or{sq.Like{"a.title": pattern}, sq.Like{"a.summary_ai": pattern}})
	}
	if filter.Category != "" {
		conds = append(conds, sq.Eq{"a.category": filter.Category})
	}
	if filter.Tag != "" {
		conds = append(conds, sq.Expr("EXISTS (SELECT 1 FROM json_each(a.robot_tags) WHERE json_each.value = ?)", filter.Tag))
	}
	if filter.CompanyID > 0 {
		conds = append(conds, sq.Eq{"a.company_id": filter.CompanyID})
	}
	if filter.SourceID > 0 {
		conds = append(conds, sq.Eq{"a.source_id": filter.SourceID})
	}
	if !filter.From.IsZero() {
		conds = append(conds, sq.GtOrEq{"a.published_at": utc(filter.From)})
	}
	if !filter.To.IsZero() {
		conds = append(conds, sq.LtOrEq{"a.published_at": utc(filter.To)})
	}
	return conds
}

func articleSelect() sq.SelectBuilder {
	return sq.Select(articleColumns...).
		From("articles a").
		LeftJoin("sources s ON s.id = a.source_id").
		LeftJoin("companies c ON c.id = a.company_id")
}

func (r *ArticleRepository) selectArticles(ctx context.Context, qb sq.SelectBuilder) ([]domain.Article, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles query: %w", err)
	}
	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}
	res := make([]domain.Article, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

func (a articleSQL) toDomain() domain.Article {
	res := domain.Article{
		ID:              a.ID,
		SourceID:        a.SourceID,
		RawNewsID:       a.RawNewsID,
		URL:             a.URL,
		Title:           a.Title,
		Summary:         a.Summary,
		Category:        domain.Category(a.Category),
		Tags:            []string(a.Tags),
		ImportanceScore: a.ImportanceScore,
		Published:       a.Published,
		CreatedAt:       a.CreatedAt,
		SourceName:      a.SourceName,
		CompanyName:     a.CompanyName,
	}
	if a.CompanyID.Valid {
		id := a.CompanyID.Int64
		res.CompanyID = &id
	}
	return res
}
