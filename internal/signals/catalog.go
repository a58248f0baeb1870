// Package signals derives the fixed catalog of deterministic feature signals
// that advisor claims are verified against.
// All functions are stateless and perform no I/O.
package signals

// Evidence keys. These strings are a stable contract with the generation
// layer and must not change.
const (
	KeyPriceTrend30d   = "price_trend_30d"
	KeyPriceTrend10d   = "price_trend_10d"
	KeyRevenueGrowth   = "revenue_growth"
	KeyEarningsGrowth  = "earnings_growth"
	KeyOperatingMargin = "operating_margin"
	KeyNetMargin       = "net_margin"
	KeyDebtToEquity    = "debt_to_equity"
	KeyReturnOnEquity  = "return_on_equity"
	KeyInsiderNetBuy   = "insider_net_buy"
	KeyNewsCount30d    = "news_count_30d"
)

// Window and scan limits
const (
	TrendWindowLong  = 30  // bars for price_trend_30d
	TrendWindowShort = 10  // bars for price_trend_10d
	InsiderScanLimit = 100 // trades considered for insider_net_buy
	NewsWindowDays   = 30  // recency window for news_count_30d
)

// catalog is the canonical key order
var catalog = []string{
	KeyPriceTrend30d,
	KeyPriceTrend10d,
	KeyRevenueGrowth,
	KeyEarningsGrowth,
	KeyOperatingMargin,
	KeyNetMargin,
	KeyDebtToEquity,
	KeyReturnOnEquity,
	KeyInsiderNetBuy,
	KeyNewsCount30d,
}

// metricPolarity lists the metric-derived signals in catalog order.
// positiveGood=false inverts the sign: lower leverage is preferred.
var metricPolarity = []struct {
	key          string
	positiveGood bool
}{
	{KeyRevenueGrowth, true},
	{KeyEarningsGrowth, true},
	{KeyOperatingMargin, true},
	{KeyNetMargin, true},
	{KeyDebtToEquity, false},
	{KeyReturnOnEquity, true},
}

// Catalog returns a copy of every evidence key in canonical order
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// IsCatalogKey reports whether key is a known evidence key
func IsCatalogKey(key string) bool {
	for _, k := range catalog {
		if k == key {
			return true
		}
	}
	return false
}
