package quality

import (
	"fmt"
	"time"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
)

// Staleness thresholds, in whole days since the latest record
const (
	PriceStaleDays   = 7
	InsiderStaleDays = 180
	NewsStaleDays    = 30

	// SparsePriceCount is the point count below which a series is sparse
	SparsePriceCount = 3
)

// Warning messages
const (
	WarnNoPrices     = "No price data available."
	WarnNoMetrics    = "No financial metrics available."
	WarnNoLineItems  = "No line items available; fundamentals detail is limited."
	WarnNoTrades     = "No insider trades data available."
	WarnNoNews       = "No news coverage available."
	WarnNoFacts      = "No company facts available."
	warnSparsePrices = "Price series is sparse (%d points)."
	warnStalePrices  = "Price data appears stale (latest %d days old)."
	warnOldTrades    = "Insider trades data is old (latest %d days old)."
	warnOldNews      = "News coverage is old (latest %d days old)."
)

// CollectWarnings applies every threshold rule to bundle relative to now.
// Rules are independent and additive; the result is never nil.
func CollectWarnings(bundle models.DataBundle, now time.Time) []string {
	warnings := make([]string, 0)
	coverage := SummarizeCoverage(bundle)

	switch prices := coverage.Prices; {
	case prices.Count == 0:
		warnings = append(warnings, WarnNoPrices)
	case prices.Count < SparsePriceCount:
		warnings = append(warnings, fmt.Sprintf(warnSparsePrices, prices.Count))
	default:
		if days, ok := latestAge(prices.DateRange, now); ok && days > PriceStaleDays {
			warnings = append(warnings, fmt.Sprintf(warnStalePrices, days))
		}
	}

	if coverage.Metrics.Count == 0 {
		warnings = append(warnings, WarnNoMetrics)
	}

	if coverage.LineItems.Count == 0 {
		warnings = append(warnings, WarnNoLineItems)
	}

	if coverage.InsiderTrades.Count == 0 {
		warnings = append(warnings, WarnNoTrades)
	} else if days, ok := latestAge(coverage.InsiderTrades.DateRange, now); ok && days > InsiderStaleDays {
		warnings = append(warnings, fmt.Sprintf(warnOldTrades, days))
	}

	if coverage.News.Count == 0 {
		warnings = append(warnings, WarnNoNews)
	} else if days, ok := latestAge(coverage.News.DateRange, now); ok && days > NewsStaleDays {
		warnings = append(warnings, fmt.Sprintf(warnOldNews, days))
	}

	if !coverage.FactsPresent {
		warnings = append(warnings, WarnNoFacts)
	}

	warnings = append(warnings, ScanAnomalies(bundle).Warnings()...)

	return warnings
}

// latestAge is the age in days of the end of r, when it is a parseable date
func latestAge(r *models.DateRange, now time.Time) (int, bool) {
	if r == nil {
		return 0, false
	}
	return common.DaysSince(r.End, now)
}
