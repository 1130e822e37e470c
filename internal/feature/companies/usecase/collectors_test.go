package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_collector/internal/feature/companies/domain/entity"
)

func TestUSACollector_Collect(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{securities: map[entity.MarketGroup][]entity.RawSecurity{
		entity.MarketGroupUSA: {
			{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Type: "stock"},
			{Symbol: "IBM", Name: "International Business Machines", Exchange: "NYSE", Type: "stock"},
		},
	}}
	c := NewUSACollector(fetcher)

	got := c.Collect(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, entity.MarketGroupUSA, c.Group())
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "Apple Inc.", got[0].Name)
	assert.Empty(t, got[0].Sector, "USA records are not enriched")
	assert.Nil(t, got[0].MarketCap)
	assert.Empty(t, got[0].Market)
}

func TestUSACollector_Collect_Empty(t *testing.T) {
	t.Parallel()

	c := NewUSACollector(&mockFetcher{})
	got := c.Collect(context.Background())

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestArgentinaCollector_Collect(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{securities: map[entity.MarketGroup][]entity.RawSecurity{
		entity.MarketGroupArgentina: {
			{Symbol: "GGAL.BA", Name: "Galicia"},
			{Symbol: "YPFD.BA", Name: "YPF"},
			{Symbol: "FAIL.BA", Name: "Failing Co"},
		},
	}}
	enricher := &mockEnricher{
		EnrichFunc: func(ctx context.Context, symbol string) entity.CompanyDetail {
			switch symbol {
			case "GGAL.BA":
				// 無関係な国コードが返っても AR で上書きされる
				return entity.CompanyDetail{Name: "Grupo Financiero Galicia", Sector: "Financial Services", CountryCode: "US", Market: "Buenos Aires"}
			case "YPFD.BA":
				return entity.CompanyDetail{Name: "YPF S.A.", Sector: "Energy", CountryCode: "GB"}
			default:
				return entity.CompanyDetail{}
			}
		},
	}
	rl := &mockRateLimiter{}
	c := NewArgentinaCollector(fetcher, enricher, rl, 2)

	got := c.Collect(context.Background())

	require.Len(t, got, 3)
	assert.Equal(t, entity.MarketGroupArgentina, c.Group())
	for _, r := range got {
		assert.Equal(t, "AR", r.CountryCode, "symbol %s", r.Symbol)
	}
	assert.Equal(t, "Grupo Financiero Galicia", got[0].Name)
	assert.Equal(t, "Buenos Aires", got[0].Market)
	assert.Equal(t, "Energy", got[1].Sector)

	// 詳細取得に失敗した銘柄も除外されず、未補完のまま残る
	assert.Equal(t, "FAIL.BA", got[2].Symbol)
	assert.Equal(t, "Failing Co", got[2].Name)
	assert.Empty(t, got[2].Sector)

	assert.Equal(t, 3, enricher.callCount())
	assert.Equal(t, 3, rl.waitCalls)
}

func TestArgentinaCollector_Collect_RateLimiterFailure(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{securities: map[entity.MarketGroup][]entity.RawSecurity{
		entity.MarketGroupArgentina: {{Symbol: "GGAL.BA", Name: "Galicia"}},
	}}
	enricher := &mockEnricher{}
	rl := &mockRateLimiter{WaitFunc: func(ctx context.Context) error { return context.Canceled }}
	c := NewArgentinaCollector(fetcher, enricher, rl, 1)

	got := c.Collect(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "AR", got[0].CountryCode)
	assert.Equal(t, 0, enricher.callCount(), "enricher must not be called when the limiter fails")
}

func TestArgentinaCollector_Collect_EnricherPanic(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{securities: map[entity.MarketGroup][]entity.RawSecurity{
		entity.MarketGroupArgentina: {
			{Symbol: "GGAL.BA", Name: "Galicia"},
			{Symbol: "BOOM.BA", Name: "Boom"},
		},
	}}
	enricher := &mockEnricher{
		EnrichFunc: func(ctx context.Context, symbol string) entity.CompanyDetail {
			if symbol == "BOOM.BA" {
				panic("unexpected profile payload")
			}
			return entity.CompanyDetail{Sector: "Financial Services"}
		},
	}
	c := NewArgentinaCollector(fetcher, enricher, &mockRateLimiter{}, 2)

	var got []entity.CompanyRecord
	require.NotPanics(t, func() { got = c.Collect(context.Background()) })

	require.Len(t, got, 2)
	assert.Equal(t, "Financial Services", got[0].Sector)
	// パニックした銘柄は未補完のまま残る
	assert.Equal(t, "BOOM.BA", got[1].Symbol)
	assert.Equal(t, "Boom", got[1].Name)
	assert.Empty(t, got[1].Sector)
	assert.Equal(t, "AR", got[1].CountryCode)
}

func TestEuropeCollector_Collect_TopByMarketCap(t *testing.T) {
	t.Parallel()

	// 620 銘柄 + 時価総額なし 5 銘柄
	securities := make([]entity.RawSecurity, 0, 625)
	caps := map[string]float64{}
	for i := 0; i < 620; i++ {
		sym := fmt.Sprintf("C%03d.DE", i)
		securities = append(securities, entity.RawSecurity{Symbol: sym, Name: sym})
		caps[sym] = float64((i*7919)%1000 + 1)
	}
	for i := 0; i < 5; i++ {
		securities = append(securities, entity.RawSecurity{Symbol: fmt.Sprintf("NOCAP%d.PA", i)})
	}

	fetcher := &mockFetcher{securities: map[entity.MarketGroup][]entity.RawSecurity{
		entity.MarketGroupEurope: securities,
	}}
	enricher := &mockEnricher{
		EnrichFunc: func(ctx context.Context, symbol string) entity.CompanyDetail {
			v, ok := caps[symbol]
			if !ok {
				return entity.CompanyDetail{Sector: "Unknown", CountryCode: "FR"}
			}
			return entity.CompanyDetail{Sector: "Industrials", CountryCode: "DE", MarketCap: floatPtr(v)}
		},
	}
	c := NewEuropeCollector(fetcher, enricher, &mockRateLimiter{}, 16)

	got := c.Collect(context.Background())

	assert.Equal(t, entity.MarketGroupEurope, c.Group())
	assert.Len(t, got, EuropeTopN)
	assert.Equal(t, 625, enricher.callCount())
	for i := 1; i < len(got); i++ {
		require.NotNil(t, got[i].MarketCap)
		assert.GreaterOrEqual(t, *got[i-1].MarketCap, *got[i].MarketCap, "index %d", i)
	}
	for _, r := range got {
		assert.NotContains(t, r.Symbol, "NOCAP")
		assert.Equal(t, "DE", r.CountryCode, "europe keeps the enriched country")
	}
}

func TestTopByMarketCap(t *testing.T) {
	t.Parallel()

	records := []entity.CompanyRecord{
		{Symbol: "A", MarketCap: floatPtr(10)},
		{Symbol: "B"},
		{Symbol: "C", MarketCap: floatPtr(30)},
		{Symbol: "D", MarketCap: floatPtr(0)},
		{Symbol: "E", MarketCap: floatPtr(10)},
		{Symbol: "F", MarketCap: floatPtr(20)},
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"success: sorted descending, ties keep input order", 10, []string{"C", "F", "A", "E"}},
		{"success: truncated", 2, []string{"C", "F"}},
		{"success: zero limit", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := topByMarketCap(records, tt.n)
			syms := make([]string, 0, len(got))
			for _, r := range got {
				syms = append(syms, r.Symbol)
			}
			assert.Equal(t, tt.want, syms)
		})
	}
}
