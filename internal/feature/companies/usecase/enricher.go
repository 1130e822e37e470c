package usecase

import (
	"context"
	"log/slog"

	"finance_collector/internal/feature/companies/domain/entity"
)

const (
	defaultSector      = "Unknown"
	defaultCountryCode = "US"
)

// countryCodes は国名から2文字の国コードへの固定の対応表です。
var countryCodes = map[string]string{
	"United States":  "US",
	"Argentina":      "AR",
	"United Kingdom": "GB",
	"Germany":        "DE",
	"France":         "FR",
	"Spain":          "ES",
	"Italy":          "IT",
	"Netherlands":    "NL",
}

// CountryCode は国名を国コードに変換します。対応表にない国は "US" になります。
func CountryCode(country string) string {
	if code, ok := countryCodes[country]; ok {
		return code
	}
	return defaultCountryCode
}

// Enricher はシンボルごとの企業プロフィールを取得して詳細情報に変換します。
type Enricher struct {
	source ProfileSource
}

// NewEnricher は新しい Enricher を作成します。
func NewEnricher(source ProfileSource) *Enricher {
	return &Enricher{source: source}
}

// Enrich は symbol の詳細情報を返します。
// 取得に失敗した場合は警告ログを出力し、空の CompanyDetail を返します（エラーは伝播しません）。
func (e *Enricher) Enrich(ctx context.Context, symbol string) entity.CompanyDetail {
	p, err := e.source.GetProfile(ctx, symbol)
	if err != nil {
		slog.Warn("failed to fetch company details", "symbol", symbol, "error", err)
		return entity.CompanyDetail{}
	}
	if p == nil {
		return entity.CompanyDetail{}
	}

	sector := p.Sector
	if sector == "" {
		sector = defaultSector
	}
	var marketCap *float64
	if p.MarketCap != nil {
		v := *p.MarketCap
		marketCap = &v
	}
	return entity.CompanyDetail{
		Name:        p.CompanyName,
		Sector:      sector,
		Industry:    p.Industry,
		MarketCap:   marketCap,
		CountryCode: CountryCode(p.Country),
		Market:      p.Exchange,
	}
}
