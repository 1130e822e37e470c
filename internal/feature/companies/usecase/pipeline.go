package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finance_collector/internal/feature/companies/domain/entity"
)

// ProcessResult はバッチ1件分の処理結果です。
type ProcessResult struct {
	Received int // 受け取ったレコード数
	Staged   int // 保存したレコード数
	Skipped  int // データ不備などで除外したレコード数
}

// Pipeline は会社レコードを正規化し、1バッチ1トランザクションで永続化します。
type Pipeline struct {
	repo CompanyRepository
}

// NewPipeline は新しい Pipeline を作成します。
func NewPipeline(repo CompanyRepository) *Pipeline {
	return &Pipeline{repo: repo}
}

// Normalize はレコードの欠損フィールドを補完します。
// symbol または name が空の場合は false を返します。
// 国コードはレコードの値、fallbackCountry、"US" の順に決まります。
func Normalize(r entity.CompanyRecord, fallbackCountry string) (entity.Company, bool) {
	name := r.Name
	if name == "" {
		name = r.CompanyName
	}
	if r.Symbol == "" || name == "" {
		return entity.Company{}, false
	}

	country := r.CountryCode
	if country == "" {
		country = fallbackCountry
	}
	if country == "" {
		country = defaultCountryCode
	}

	sector := r.Sector
	if sector == "" {
		sector = defaultSector
	}

	market := r.Market
	if market == "" {
		market = InferMarket(r.Symbol)
	}

	return entity.Company{
		Symbol:      r.Symbol,
		Name:        name,
		CountryCode: country,
		Sector:      sector,
		Market:      market,
	}, true
}

// Process はバッチ内の全レコードを1つのトランザクションで保存します。
// 不正なレコードや国コードが見つからないレコードは警告を出してスキップします。
// DBエラーが発生した場合はバッチ全体をロールバックし、エラーを返します。
// fallbackCountry はグループの既定の国コードで、空文字列は「指定なし」を意味します。
func (p *Pipeline) Process(ctx context.Context, batch []entity.CompanyRecord, fallbackCountry string) (ProcessResult, error) {
	res := ProcessResult{Received: len(batch)}

	err := p.repo.WithinTx(ctx, func(tx CompanyTx) error {
		staged, skipped := 0, 0
		for _, r := range batch {
			c, ok := Normalize(r, fallbackCountry)
			if !ok {
				slog.Warn("skipping company with missing data", "symbol", r.Symbol, "name", r.Name)
				skipped++
				continue
			}

			ok, err := p.stage(ctx, tx, c)
			if err != nil {
				return err
			}
			if !ok {
				skipped++
				continue
			}
			staged++
		}
		res.Staged, res.Skipped = staged, skipped
		return nil
	})
	if err != nil {
		return ProcessResult{Received: len(batch)}, fmt.Errorf("process companies: %w", err)
	}
	return res, nil
}

// stage はルックアップ行を解決して会社を書き込みます。国が存在しない場合は false を返します。
func (p *Pipeline) stage(ctx context.Context, tx CompanyTx, c entity.Company) (bool, error) {
	sectorID, err := tx.UpsertSector(ctx, c.Sector)
	if err != nil {
		return false, fmt.Errorf("upsert sector %q: %w", c.Sector, err)
	}

	countryID, err := tx.FindCountryID(ctx, c.CountryCode)
	if errors.Is(err, ErrCountryNotFound) {
		slog.Warn("country code not found in database, skipping company", "country_code", c.CountryCode, "symbol", c.Symbol)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find country %q: %w", c.CountryCode, err)
	}

	marketID, err := tx.UpsertMarket(ctx, c.Market)
	if err != nil {
		return false, fmt.Errorf("upsert market %q: %w", c.Market, err)
	}

	if err := tx.UpsertCompany(ctx, CompanyRow{
		Symbol:    c.Symbol,
		Name:      c.Name,
		CountryID: countryID,
		SectorID:  sectorID,
		MarketID:  marketID,
	}); err != nil {
		return false, fmt.Errorf("upsert company %q: %w", c.Symbol, err)
	}
	return true, nil
}
