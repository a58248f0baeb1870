package advisors

import "github.com/ternarybob/verity/internal/signals"

// Persona keys
const (
	KeyWarren = "warren"
	KeyBill   = "bill"
	KeyRobin  = "robin"
)

// Claim bounds requested from every default persona
const (
	DefaultMinClaims = 3
	DefaultMaxClaims = 5
)

// DefaultPersonas returns the built-in advisors in weight-table order.
// Base weights sum to 1.0.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Key:        KeyWarren,
			Title:      "WARREN BUFFETT - VALUE ANALYSIS",
			BaseWeight: 0.4,
			AllowedEvidenceKeys: []string{
				signals.KeyRevenueGrowth,
				signals.KeyEarningsGrowth,
				signals.KeyOperatingMargin,
				signals.KeyNetMargin,
				signals.KeyDebtToEquity,
				signals.KeyReturnOnEquity,
				signals.KeyInsiderNetBuy,
				signals.KeyPriceTrend30d,
			},
			MinClaims: DefaultMinClaims,
			MaxClaims: DefaultMaxClaims,
			FocusHint: "Focus on long-term fundamentals. Prioritize profitability, growth quality, " +
				"capital efficiency, and leverage discipline.",
			RequiresAny:         []string{CollectionMetrics, CollectionItems},
			InsufficientMessage: "Insufficient fundamental data to provide a long-term assessment.",
			MissingDataNote:     "Missing metrics and line items.",
		},
		{
			Key:        KeyBill,
			Title:      "BILL ACKMAN",
			BaseWeight: 0.35,
			AllowedEvidenceKeys: []string{
				signals.KeyDebtToEquity,
				signals.KeyEarningsGrowth,
				signals.KeyNetMargin,
				signals.KeyNewsCount30d,
				signals.KeyInsiderNetBuy,
				signals.KeyRevenueGrowth,
				signals.KeyOperatingMargin,
			},
			MinClaims: DefaultMinClaims,
			MaxClaims: DefaultMaxClaims,
			FocusHint: "Focus on downside risk and catalyst risk. Prioritize leverage stress, " +
				"earnings durability, and risk signals from news flow.",
			RequiresAny:         []string{CollectionMetrics, CollectionNews},
			InsufficientMessage: "Insufficient data to assess risks and catalysts.",
			MissingDataNote:     "Missing metrics and news.",
		},
		{
			Key:        KeyRobin,
			Title:      "ROBINHOOD COACH",
			BaseWeight: 0.25,
			AllowedEvidenceKeys: []string{
				signals.KeyPriceTrend10d,
				signals.KeyPriceTrend30d,
				signals.KeyNewsCount30d,
				signals.KeyInsiderNetBuy,
				signals.KeyNetMargin,
			},
			MinClaims: DefaultMinClaims,
			MaxClaims: DefaultMaxClaims,
			FocusHint: "Focus on short-term momentum. Prioritize recent price trend, recent news volume, " +
				"and near-term signal strength.",
			RequiresAny:         []string{CollectionPrices},
			InsufficientMessage: "Insufficient price data to assess short-term momentum.",
			MissingDataNote:     "Missing price data.",
		},
	}
}
