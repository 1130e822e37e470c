// Package entity defines the domain models for the companies feature.
package entity

// MarketGroup は収集対象の地域グループ（USA, Argentina, Europe）を表します。
type MarketGroup string

const (
	MarketGroupUSA       MarketGroup = "USA"
	MarketGroupArgentina MarketGroup = "Argentina"
	MarketGroupEurope    MarketGroup = "Europe"
)

// RawSecurity is one entry of an upstream security list.
// Every field may be absent; an absent field is the empty string.
type RawSecurity struct {
	Symbol            string
	Name              string
	Exchange          string
	ExchangeShortName string
	Type              string // e.g. "stock", "etf", "fund"
}

// RawProfile is the per-symbol profile document returned by the upstream API.
type RawProfile struct {
	Symbol      string
	CompanyName string
	Sector      string
	Industry    string
	MarketCap   *float64 // nil when the upstream omits mktCap
	Country     string   // country name, e.g. "United Kingdom"
	Exchange    string
}

// CompanyDetail は Enricher が返す詳細情報です。
// 取得に失敗した場合はゼロ値（空のレコード）になります。
type CompanyDetail struct {
	Name        string
	Sector      string
	Industry    string
	MarketCap   *float64
	CountryCode string
	Market      string
}

// IsEmpty は詳細情報が一切取得できなかったかどうかを返します。
func (d CompanyDetail) IsEmpty() bool {
	return d == CompanyDetail{}
}

// CompanyRecord は収集からパイプラインへ渡される、まだ正規化されていない会社レコードです。
// 空文字列のフィールドは「値なし」として扱われます。
type CompanyRecord struct {
	Symbol      string
	Name        string
	CompanyName string // Name が空のときの代替名
	Exchange    string
	Type        string
	Sector      string
	Industry    string
	Market      string
	CountryCode string
	MarketCap   *float64
}

// FromSecurity は RawSecurity から CompanyRecord を作成します。
func FromSecurity(s RawSecurity) CompanyRecord {
	return CompanyRecord{
		Symbol:   s.Symbol,
		Name:     s.Name,
		Exchange: s.Exchange,
		Type:     s.Type,
	}
}

// Merge は detail の空でないフィールドで r を上書きしたコピーを返します。
func (r CompanyRecord) Merge(d CompanyDetail) CompanyRecord {
	if d.Name != "" {
		r.Name = d.Name
	}
	if d.Sector != "" {
		r.Sector = d.Sector
	}
	if d.Industry != "" {
		r.Industry = d.Industry
	}
	if d.MarketCap != nil {
		v := *d.MarketCap
		r.MarketCap = &v
	}
	if d.CountryCode != "" {
		r.CountryCode = d.CountryCode
	}
	if d.Market != "" {
		r.Market = d.Market
	}
	return r
}

// HasMarketCap reports whether the record carries a usable market capitalization.
// A zero value counts as missing.
func (r CompanyRecord) HasMarketCap() bool {
	return r.MarketCap != nil && *r.MarketCap != 0
}

// Company は正規化済みで永続化可能な会社情報です。
type Company struct {
	Symbol      string
	Name        string
	CountryCode string
	Sector      string
	Market      string
}
