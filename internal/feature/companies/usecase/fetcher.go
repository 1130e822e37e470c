package usecase

import (
	"context"
	"log/slog"
	"strings"

	"finance_collector/internal/feature/companies/domain/entity"
)

// europeSuffixes は欧州の取引所を示すシンボルのサフィックスです。
// London, Frankfurt, Paris, Madrid, Milan, Amsterdam, Brussels, Copenhagen,
// Helsinki, Lisbon, Irish, Stockholm, Swiss, Vienna の順。
var europeSuffixes = []string{
	".L", ".DE", ".PA", ".MC", ".MI", ".AS", ".BR",
	".CO", ".HE", ".LS", ".I", ".ST", ".SW", ".VI",
}

// CatalogFetcher は上流APIから銘柄一覧を取得し、マーケットグループごとのフィルタを適用します。
type CatalogFetcher struct {
	source CatalogSource
}

// NewCatalogFetcher は新しい CatalogFetcher を作成します。
func NewCatalogFetcher(source CatalogSource) *CatalogFetcher {
	return &CatalogFetcher{source: source}
}

// Fetch は指定グループの銘柄一覧を返します。
// 取得に失敗した場合はログを出力して空のスライスを返すため、
// 呼び出し側は「結果なし」と「取得失敗」を区別しません。
func (f *CatalogFetcher) Fetch(ctx context.Context, group entity.MarketGroup) []entity.RawSecurity {
	var (
		list   []entity.RawSecurity
		err    error
		filter func(entity.RawSecurity) bool
	)

	switch group {
	case entity.MarketGroupUSA:
		list, err = f.source.ListStocks(ctx)
		filter = isUSAStock
	case entity.MarketGroupArgentina:
		list, err = f.source.ListAvailableSecurities(ctx)
		filter = isArgentinaSecurity
	case entity.MarketGroupEurope:
		list, err = f.source.ListAvailableSecurities(ctx)
		filter = isEuropeSecurity
	default:
		slog.Error("unknown market group", "group", group)
		return []entity.RawSecurity{}
	}
	if err != nil {
		slog.Error("failed to fetch security list", "group", group, "error", err)
		return []entity.RawSecurity{}
	}

	out := make([]entity.RawSecurity, 0, len(list))
	for _, s := range list {
		if filter(s) {
			out = append(out, s)
		}
	}
	slog.Info("fetched companies", "group", group, "count", len(out))
	return out
}

// isUSAStock: ドットを含まない普通株で、店頭市場（OTC）以外のもの。
func isUSAStock(s entity.RawSecurity) bool {
	if s.Symbol == "" || strings.Contains(s.Symbol, ".") {
		return false
	}
	if s.Type != "stock" {
		return false
	}
	return !strings.Contains(s.Exchange, "OTC") && !strings.Contains(s.ExchangeShortName, "OTC")
}

func isArgentinaSecurity(s entity.RawSecurity) bool {
	return strings.Contains(s.Symbol, ".BA")
}

func isEuropeSecurity(s entity.RawSecurity) bool {
	if s.Symbol == "" {
		return false
	}
	for _, suffix := range europeSuffixes {
		if strings.HasSuffix(s.Symbol, suffix) {
			return true
		}
	}
	return false
}
