package usecase

import (
	"context"

	"finance_collector/internal/feature/companies/domain/entity"
)

// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).

// CatalogSource は上流APIの銘柄一覧エンドポイントを抽象化します。
type CatalogSource interface {
	ListStocks(ctx context.Context) ([]entity.RawSecurity, error)
	ListAvailableSecurities(ctx context.Context) ([]entity.RawSecurity, error)
}

// ProfileSource は上流APIの企業プロフィールエンドポイントを抽象化します。
// プロフィールが存在しない場合は nil, nil を返します。
type ProfileSource interface {
	GetProfile(ctx context.Context, symbol string) (*entity.RawProfile, error)
}

// CompanyRepository は1バッチ分の書き込みを1トランザクションで実行します。
// fn がエラーを返した場合はロールバックし、そのエラーを返します。
type CompanyRepository interface {
	WithinTx(ctx context.Context, fn func(tx CompanyTx) error) error
}

// CompanyTx はトランザクション内で利用できる操作です。
type CompanyTx interface {
	// UpsertSector は名前でセクターを登録（既存ならそのまま）し、IDを返します。
	UpsertSector(ctx context.Context, name string) (uint, error)
	// FindCountryID は国コードから国IDを返します。存在しない場合は ErrCountryNotFound。
	FindCountryID(ctx context.Context, code string) (uint, error)
	// UpsertMarket は名前でマーケットを登録（既存ならそのまま）し、IDを返します。
	UpsertMarket(ctx context.Context, name string) (uint, error)
	// UpsertCompany はシンボルをキーに会社を登録または上書きし、updated_at を更新します。
	UpsertCompany(ctx context.Context, c CompanyRow) error
}

// CompanyRow is a company ready to be written with its resolved lookup ids.
type CompanyRow struct {
	Symbol    string
	Name      string
	CountryID uint
	SectorID  uint
	MarketID  uint
}

// RunStatusStore は直近の収集結果を保存します。
type RunStatusStore interface {
	SaveLastRun(ctx context.Context, s entity.RunSummary) error
	// LastRun は記録がない場合 ErrRunStatusNotFound を返します。
	LastRun(ctx context.Context) (entity.RunSummary, error)
}
