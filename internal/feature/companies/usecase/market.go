package usecase

import "strings"

// marketBySuffix はシンボルに含まれる取引所サフィックスとマーケット名の対応です（判定順）。
var marketBySuffix = []struct {
	suffix string
	market string
}{
	{".BA", "BCBA"},
	{".L", "LSE"},
	{".DE", "XETRA"},
	{".PA", "EURONEXT"},
	{".MC", "IBEX"},
}

// InferMarket はシンボルの形式からマーケット名を推定します。
// あくまで簡易的な推定であり、正確さは保証しません。
// サフィックスに該当しない場合、4文字以下は NYSE、それ以外は NASDAQ とみなします。
func InferMarket(symbol string) string {
	for _, m := range marketBySuffix {
		if strings.Contains(symbol, m.suffix) {
			return m.market
		}
	}
	if len(symbol) <= 4 {
		return "NYSE"
	}
	return "NASDAQ"
}
