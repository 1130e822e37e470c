package usecase

import (
	"context"
	"errors"
	"sync"

	"finance_collector/internal/feature/companies/domain/entity"
)

var (
	ErrUpstream = errors.New("upstream error")
	ErrDB       = errors.New("database error")
)

func floatPtr(f float64) *float64 { return &f }

// mockCatalogSource is a mock implementation of the CatalogSource interface.
type mockCatalogSource struct {
	ListStocksFunc              func(ctx context.Context) ([]entity.RawSecurity, error)
	ListAvailableSecuritiesFunc func(ctx context.Context) ([]entity.RawSecurity, error)
	ListStocksCalls             int
	ListAvailableCalls          int
}

func (m *mockCatalogSource) ListStocks(ctx context.Context) ([]entity.RawSecurity, error) {
	m.ListStocksCalls++
	if m.ListStocksFunc != nil {
		return m.ListStocksFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogSource) ListAvailableSecurities(ctx context.Context) ([]entity.RawSecurity, error) {
	m.ListAvailableCalls++
	if m.ListAvailableSecuritiesFunc != nil {
		return m.ListAvailableSecuritiesFunc(ctx)
	}
	return nil, nil
}

// mockProfileSource is a mock implementation of the ProfileSource interface.
type mockProfileSource struct {
	GetProfileFunc func(ctx context.Context, symbol string) (*entity.RawProfile, error)
}

func (m *mockProfileSource) GetProfile(ctx context.Context, symbol string) (*entity.RawProfile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, symbol)
	}
	return nil, nil
}

// mockFetcher returns a fixed list per group.
type mockFetcher struct {
	securities map[entity.MarketGroup][]entity.RawSecurity
}

func (m *mockFetcher) Fetch(ctx context.Context, group entity.MarketGroup) []entity.RawSecurity {
	return m.securities[group]
}

// mockEnricher is safe for concurrent use.
type mockEnricher struct {
	EnrichFunc func(ctx context.Context, symbol string) entity.CompanyDetail

	mu    sync.Mutex
	calls []string
}

func (m *mockEnricher) Enrich(ctx context.Context, symbol string) entity.CompanyDetail {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()
	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, symbol)
	}
	return entity.CompanyDetail{}
}

func (m *mockEnricher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockRateLimiter is a mock implementation of the RateLimiterInterface.
type mockRateLimiter struct {
	WaitFunc func(ctx context.Context) error

	mu        sync.Mutex
	waitCalls int
}

func (m *mockRateLimiter) Wait(ctx context.Context) error {
	m.mu.Lock()
	m.waitCalls++
	m.mu.Unlock()
	if m.WaitFunc != nil {
		return m.WaitFunc(ctx)
	}
	return nil
}

// fakeStore is an in-memory CompanyRepository with transactional semantics:
// writes made inside WithinTx become visible only when fn returns nil.
type fakeStore struct {
	countries map[string]uint
	sectors   map[string]uint
	markets   map[string]uint
	companies map[string]CompanyRow

	// failUpsertCompanyAt makes the n-th UpsertCompany call of a transaction fail (1-based, 0 = never).
	failUpsertCompanyAt int
	failFindCountry     error

	txCount int
}

func newFakeStore(countryCodes ...string) *fakeStore {
	s := &fakeStore{
		countries: map[string]uint{},
		sectors:   map[string]uint{},
		markets:   map[string]uint{},
		companies: map[string]CompanyRow{},
	}
	for i, c := range countryCodes {
		s.countries[c] = uint(i + 1)
	}
	return s
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(tx CompanyTx) error) error {
	s.txCount++
	tx := &fakeTx{
		store:     s,
		sectors:   copyMap(s.sectors),
		markets:   copyMap(s.markets),
		companies: map[string]CompanyRow{},
	}
	for k, v := range s.companies {
		tx.companies[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.sectors, s.markets, s.companies = tx.sectors, tx.markets, tx.companies
	return nil
}

func copyMap(m map[string]uint) map[string]uint {
	out := make(map[string]uint, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fakeTx struct {
	store           *fakeStore
	sectors         map[string]uint
	markets         map[string]uint
	companies       map[string]CompanyRow
	upsertCompanies int
}

func (t *fakeTx) UpsertSector(ctx context.Context, name string) (uint, error) {
	if id, ok := t.sectors[name]; ok {
		return id, nil
	}
	id := uint(len(t.sectors) + 1)
	t.sectors[name] = id
	return id, nil
}

func (t *fakeTx) FindCountryID(ctx context.Context, code string) (uint, error) {
	if t.store.failFindCountry != nil {
		return 0, t.store.failFindCountry
	}
	id, ok := t.store.countries[code]
	if !ok {
		return 0, ErrCountryNotFound
	}
	return id, nil
}

func (t *fakeTx) UpsertMarket(ctx context.Context, name string) (uint, error) {
	if id, ok := t.markets[name]; ok {
		return id, nil
	}
	id := uint(len(t.markets) + 1)
	t.markets[name] = id
	return id, nil
}

func (t *fakeTx) UpsertCompany(ctx context.Context, c CompanyRow) error {
	t.upsertCompanies++
	if t.store.failUpsertCompanyAt > 0 && t.upsertCompanies == t.store.failUpsertCompanyAt {
		return ErrDB
	}
	t.companies[c.Symbol] = c
	return nil
}

// mockStatusStore is a mock implementation of the RunStatusStore interface.
type mockStatusStore struct {
	SaveErr error
	saved   []entity.RunSummary
}

func (m *mockStatusStore) SaveLastRun(ctx context.Context, s entity.RunSummary) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockStatusStore) LastRun(ctx context.Context) (entity.RunSummary, error) {
	if len(m.saved) == 0 {
		return entity.RunSummary{}, ErrRunStatusNotFound
	}
	return m.saved[len(m.saved)-1], nil
}
