package server

import (
	"context"

	"github.com/umputun/robohub/pkg/domain"
	"github.com/umputun/robohub/pkg/repository"
)

// RepositoryAdapter adapts repositories to Store interface
type RepositoryAdapter struct {
	repos *repository.Repositories
}

// NewRepositoryAdapter creates a new repository adapter
func NewRepositoryAdapter(repos *repository.Repositories) *RepositoryAdapter {
	return &RepositoryAdapter{repos: repos}
}

// ListArticles returns filtered articles with the total count
func (r *RepositoryAdapter) ListArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, int, error) {
	return r.repos.Article.ListArticles(ctx, filter)
}

// ListCompanies returns filtered companies
func (r *RepositoryAdapter) ListCompanies(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	return r.repos.Company.ListCompanies(ctx, filter)
}

// GetCompany returns a company by id, repository.ErrNotFound if absent
func (r *RepositoryAdapter) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	return r.repos.Company.GetCompany(ctx, id)
}

// CompanyArticles returns articles linked to the company
func (r *RepositoryAdapter) CompanyArticles(ctx context.Context, companyID int64) ([]domain.Article, error) {
	return r.repos.Article.CompanyArticles(ctx, companyID)
}

// LatestSnapshot returns the most recent token snapshot
func (r *RepositoryAdapter) LatestSnapshot(ctx context.Context) ([]domain.TokenSnapshot, error) {
	return r.repos.Snapshot.LatestSnapshot(ctx)
}

// ListSources returns all feed sources
func (r *RepositoryAdapter) ListSources(ctx context.Context) ([]domain.Source, error) {
	return r.repos.Source.ListSources(ctx)
}
