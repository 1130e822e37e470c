package usecase

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/shared/ratelimiter"
)

const (
	// EuropeTopN は欧州グループで保存する会社数の上限（時価総額の大きい順）です。
	EuropeTopN = 600

	argentinaCountryCode = "AR"

	defaultEnrichConcurrency = 8
)

// Collector は1つのマーケットグループの会社一覧を収集します。
// 失敗した場合も空のスライスを返し、エラーは伝播しません。
type Collector interface {
	Group() entity.MarketGroup
	Collect(ctx context.Context) []entity.CompanyRecord
}

// SecurityFetcher is the part of CatalogFetcher the collectors depend on.
type SecurityFetcher interface {
	Fetch(ctx context.Context, group entity.MarketGroup) []entity.RawSecurity
}

// DetailEnricher is the part of Enricher the collectors depend on.
type DetailEnricher interface {
	Enrich(ctx context.Context, symbol string) entity.CompanyDetail
}

// USACollector は一覧取得とフィルタのみを行います（詳細情報の取得はしません）。
type USACollector struct {
	fetcher SecurityFetcher
}

// NewUSACollector は新しい USACollector を作成します。
func NewUSACollector(fetcher SecurityFetcher) *USACollector {
	return &USACollector{fetcher: fetcher}
}

func (c *USACollector) Group() entity.MarketGroup { return entity.MarketGroupUSA }

// Collect implements Collector.
func (c *USACollector) Collect(ctx context.Context) []entity.CompanyRecord {
	securities := c.fetcher.Fetch(ctx, entity.MarketGroupUSA)
	out := make([]entity.CompanyRecord, 0, len(securities))
	for _, s := range securities {
		out = append(out, entity.FromSecurity(s))
	}
	return out
}

// ArgentinaCollector は一覧取得後、各銘柄の詳細を並行して取得し、国コードを "AR" に固定します。
type ArgentinaCollector struct {
	fetcher SecurityFetcher
	fanout  *enrichFanout
}

// NewArgentinaCollector は新しい ArgentinaCollector を作成します。
func NewArgentinaCollector(fetcher SecurityFetcher, enricher DetailEnricher, rl ratelimiter.RateLimiterInterface, concurrency int) *ArgentinaCollector {
	return &ArgentinaCollector{
		fetcher: fetcher,
		fanout:  newEnrichFanout(enricher, rl, concurrency),
	}
}

func (c *ArgentinaCollector) Group() entity.MarketGroup { return entity.MarketGroupArgentina }

// Collect implements Collector.
func (c *ArgentinaCollector) Collect(ctx context.Context) []entity.CompanyRecord {
	securities := c.fetcher.Fetch(ctx, entity.MarketGroupArgentina)
	records := c.fanout.run(ctx, securities)
	// 取引所の所在地が固定なので、詳細情報の国コードに関係なく上書きする
	for i := range records {
		records[i].CountryCode = argentinaCountryCode
	}
	return records
}

// EuropeCollector は一覧取得後に詳細を並行取得し、時価総額の大きい順に上位 EuropeTopN 件を返します。
type EuropeCollector struct {
	fetcher SecurityFetcher
	fanout  *enrichFanout
	limit   int
}

// NewEuropeCollector は新しい EuropeCollector を作成します。
func NewEuropeCollector(fetcher SecurityFetcher, enricher DetailEnricher, rl ratelimiter.RateLimiterInterface, concurrency int) *EuropeCollector {
	return &EuropeCollector{
		fetcher: fetcher,
		fanout:  newEnrichFanout(enricher, rl, concurrency),
		limit:   EuropeTopN,
	}
}

func (c *EuropeCollector) Group() entity.MarketGroup { return entity.MarketGroupEurope }

// Collect implements Collector.
func (c *EuropeCollector) Collect(ctx context.Context) []entity.CompanyRecord {
	securities := c.fetcher.Fetch(ctx, entity.MarketGroupEurope)
	return topByMarketCap(c.fanout.run(ctx, securities), c.limit)
}

// topByMarketCap は時価総額のないレコードを除外し、降順に並べて最大 n 件を返します。
// 同じ時価総額の順序は入力順を保ちます。
func topByMarketCap(records []entity.CompanyRecord, n int) []entity.CompanyRecord {
	out := make([]entity.CompanyRecord, 0, len(records))
	for _, r := range records {
		if r.HasMarketCap() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].MarketCap > *out[j].MarketCap
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// enrichFanout は銘柄ごとに1つのタスクを起動して詳細を取得し、全タスクの完了を待ちます。
type enrichFanout struct {
	enricher    DetailEnricher
	rl          ratelimiter.RateLimiterInterface
	concurrency int
}

func newEnrichFanout(enricher DetailEnricher, rl ratelimiter.RateLimiterInterface, concurrency int) *enrichFanout {
	if concurrency <= 0 {
		concurrency = defaultEnrichConcurrency
	}
	return &enrichFanout{enricher: enricher, rl: rl, concurrency: concurrency}
}

// run は全銘柄の詳細を取得してマージしたレコードを返します。
// 個別の失敗は空の詳細として扱われ、その銘柄は詳細なしのまま残ります。
func (f *enrichFanout) run(ctx context.Context, securities []entity.RawSecurity) []entity.CompanyRecord {
	records := make([]entity.CompanyRecord, len(securities))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, s := range securities {
		g.Go(func() error {
			records[i] = entity.FromSecurity(s).Merge(f.safeEnrich(ctx, s.Symbol))
			return nil
		})
	}
	// タスクは常に nil を返す
	_ = g.Wait()

	return records
}

// safeEnrich はタスク内のパニックを空の詳細として扱います。
func (f *enrichFanout) safeEnrich(ctx context.Context, symbol string) (d entity.CompanyDetail) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while fetching company details", "symbol", symbol, "panic", r)
			d = entity.CompanyDetail{}
		}
	}()
	return f.enrich(ctx, symbol)
}

func (f *enrichFanout) enrich(ctx context.Context, symbol string) entity.CompanyDetail {
	if f.rl != nil {
		if err := f.rl.Wait(ctx); err != nil {
			slog.Warn("failed to fetch company details", "symbol", symbol, "error", err)
			return entity.CompanyDetail{}
		}
	}
	return f.enricher.Enrich(ctx, symbol)
}
