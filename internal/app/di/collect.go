package di

import (
	"gorm.io/gorm"

	"finance_collector/internal/feature/companies/adapters"
	"finance_collector/internal/feature/companies/usecase"
	"finance_collector/internal/platform/config"
	"finance_collector/internal/shared/ratelimiter"
)

// Upstream is the FMP surface the collectors need.
type Upstream interface {
	usecase.CatalogSource
	usecase.ProfileSource
}

// NewOrchestrator wires the three market collectors, the pipeline and the status store.
// Argentina と Europe の詳細取得は1つのレートリミッタを共有します。
func NewOrchestrator(cfg config.Config, upstream Upstream, db *gorm.DB, status usecase.RunStatusStore) *usecase.Orchestrator {
	fetcher := usecase.NewCatalogFetcher(upstream)
	enricher := usecase.NewEnricher(upstream)
	rl := ratelimiter.NewRateLimiter(cfg.FMP.RateLimit)
	concurrency := cfg.Collect.EnrichConcurrency

	jobs := usecase.DefaultJobs(
		usecase.NewUSACollector(fetcher),
		usecase.NewArgentinaCollector(fetcher, enricher, rl, concurrency),
		usecase.NewEuropeCollector(fetcher, enricher, rl, concurrency),
	)
	pipeline := usecase.NewPipeline(adapters.NewCompanyRepository(db))
	return usecase.NewOrchestrator(pipeline, status, jobs...)
}

// NewCompanyQuery creates the read side for GET /companies.
func NewCompanyQuery(db *gorm.DB) *usecase.CompanyQuery {
	return usecase.NewCompanyQuery(adapters.NewCompanyRepository(db))
}
