// Package adapters はcompaniesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/feature/companies/usecase"
)

// CountryModel は countries テーブルの行です。行は事前に投入され、収集処理では参照のみ行います。
type CountryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:2;not null;uniqueIndex"`
	Name string `gorm:"size:128;not null"`
}

func (CountryModel) TableName() string {
	return "countries"
}

type SectorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:128;not null;uniqueIndex"`
}

func (SectorModel) TableName() string {
	return "sectors"
}

type MarketModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:64;not null;uniqueIndex"`
}

func (MarketModel) TableName() string {
	return "markets"
}

// CompanyModel は companies テーブルの行です。symbol が自然キーです。
type CompanyModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Symbol    string `gorm:"size:32;not null;uniqueIndex"`
	CountryID uint   `gorm:"not null;index"`
	SectorID  uint   `gorm:"not null;index"`
	MarketID  uint   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Country CountryModel `gorm:"foreignKey:CountryID"`
	Sector  SectorModel  `gorm:"foreignKey:SectorID"`
	Market  MarketModel  `gorm:"foreignKey:MarketID"`
}

func (CompanyModel) TableName() string {
	return "companies"
}

// Models はマイグレーション対象のモデルを依存順に返します。
func Models() []any {
	return []any{&CountryModel{}, &SectorModel{}, &MarketModel{}, &CompanyModel{}}
}

type companyGorm struct {
	db *gorm.DB
}

var (
	_ usecase.CompanyRepository = (*companyGorm)(nil)
	_ usecase.CompanyReader     = (*companyGorm)(nil)
)

// NewCompanyRepository は指定されたDB接続で会社リポジトリを生成します。
func NewCompanyRepository(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// WithinTx は fn を1つのトランザクションで実行します。fn がエラーを返すとロールバックします。
func (r *companyGorm) WithinTx(ctx context.Context, fn func(tx usecase.CompanyTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
}

// gormTx はトランザクション内の操作です。すべてのクエリは tx を経由します。
type gormTx struct {
	tx *gorm.DB
}

var _ usecase.CompanyTx = (*gormTx)(nil)

func (t *gormTx) UpsertSector(ctx context.Context, name string) (uint, error) {
	if err := t.insertIgnore(ctx, &SectorModel{Name: name}); err != nil {
		return 0, err
	}
	var m SectorModel
	if err := t.tx.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (t *gormTx) UpsertMarket(ctx context.Context, name string) (uint, error) {
	if err := t.insertIgnore(ctx, &MarketModel{Name: name}); err != nil {
		return 0, err
	}
	var m MarketModel
	if err := t.tx.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// insertIgnore は name が既に存在する場合は何もしません。
// 競合時に返るIDはドライバによって不定なので、呼び出し側で name から読み直します。
func (t *gormTx) insertIgnore(ctx context.Context, row any) error {
	return t.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(row).Error
}

func (t *gormTx) FindCountryID(ctx context.Context, code string) (uint, error) {
	var m CountryModel
	err := t.tx.WithContext(ctx).Where("code = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, usecase.ErrCountryNotFound
	}
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (t *gormTx) UpsertCompany(ctx context.Context, c usecase.CompanyRow) error {
	m := CompanyModel{
		Name:      c.Name,
		Symbol:    c.Symbol,
		CountryID: c.CountryID,
		SectorID:  c.SectorID,
		MarketID:  c.MarketID,
	}
	return t.tx.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "country_id", "sector_id", "market_id", "updated_at"}),
		}).Create(&m).Error
}

// ListCompanies は symbol 順に会社を返します。limit が 0 以下の場合は全件を返します。
func (r *companyGorm) ListCompanies(ctx context.Context, limit, offset int) ([]entity.Company, error) {
	var rows []CompanyModel
	q := r.db.WithContext(ctx).
		Preload("Country").
		Preload("Sector").
		Preload("Market").
		Order("symbol ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Company, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Company{
			Symbol:      m.Symbol,
			Name:        m.Name,
			CountryCode: m.Country.Code,
			Sector:      m.Sector.Name,
			Market:      m.Market.Name,
		})
	}
	return out, nil
}

func (r *companyGorm) CountCompanies(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&CompanyModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// DefaultCountries は収集処理が参照する国の初期データです。
var DefaultCountries = []CountryModel{
	{Code: "US", Name: "United States"},
	{Code: "AR", Name: "Argentina"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "ES", Name: "Spain"},
	{Code: "IT", Name: "Italy"},
	{Code: "NL", Name: "Netherlands"},
}

// Migrate はテーブルを作成・更新します。
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedCountries は国の行を登録します。既存のコードは名前のみ更新します。
func SeedCountries(ctx context.Context, db *gorm.DB, countries []CountryModel) error {
	if len(countries) == 0 {
		return nil
	}
	rows := make([]CountryModel, len(countries))
	copy(rows, countries)
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&rows).Error
}
