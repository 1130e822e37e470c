package usecase

import (
	"context"
	"fmt"

	"finance_collector/internal/feature/companies/domain/entity"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// CompanyReader は保存済みの会社を参照します。
type CompanyReader interface {
	ListCompanies(ctx context.Context, limit, offset int) ([]entity.Company, error)
	CountCompanies(ctx context.Context) (int64, error)
}

// CompanyPage は会社一覧の1ページ分です。
type CompanyPage struct {
	Total     int64
	Limit     int
	Offset    int
	Companies []entity.Company
}

// CompanyQuery は保存済みの会社一覧を返します。
type CompanyQuery struct {
	repo CompanyReader
}

// NewCompanyQuery は新しい CompanyQuery を作成します。
func NewCompanyQuery(repo CompanyReader) *CompanyQuery {
	return &CompanyQuery{repo: repo}
}

// List は symbol 順の会社一覧を返します。
// limit が 0 以下なら DefaultPageSize、MaxPageSize を超える場合は MaxPageSize に丸めます。
func (q *CompanyQuery) List(ctx context.Context, limit, offset int) (CompanyPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total, err := q.repo.CountCompanies(ctx)
	if err != nil {
		return CompanyPage{}, fmt.Errorf("count companies: %w", err)
	}
	companies, err := q.repo.ListCompanies(ctx, limit, offset)
	if err != nil {
		return CompanyPage{}, fmt.Errorf("list companies: %w", err)
	}
	return CompanyPage{Total: total, Limit: limit, Offset: offset, Companies: companies}, nil
}
