// Package quality assesses a DataBundle before any signal is derived from it:
// a display snapshot, a coverage summary, and threshold-based warnings.
// All functions are stateless, total and perform no I/O.
package quality

import (
	"sort"
	"time"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
)

// Sample sizes kept in the snapshot
const (
	PriceSampleSize    = 3
	LineItemSampleSize = 5
	TradeSampleSize    = 5
	HeadlineSampleSize = 8
)

// BuildSnapshot summarises bundle for display. Samples are copies, so the
// snapshot never aliases the caller's slices.
func BuildSnapshot(bundle models.DataBundle) models.Snapshot {
	headlines := make([]string, 0, HeadlineSampleSize)
	for _, article := range head(bundle.News, HeadlineSampleSize) {
		headlines = append(headlines, article.Title)
	}

	var facts *models.CompanyFacts
	if bundle.Facts.Present() {
		f := *bundle.Facts
		facts = &f
	}

	return models.Snapshot{
		Prices: models.PriceSnapshot{
			Count:     len(bundle.Prices),
			DateRange: priceDateRange(bundle.Prices),
			Sample:    head(bundle.Prices, PriceSampleSize),
		},
		Metrics: models.MetricsSnapshot{
			Count:  len(bundle.Metrics),
			Latest: bundle.LatestMetrics(),
		},
		LineItems: models.LineItemSnapshot{
			Count:  len(bundle.LineItems),
			Sample: head(bundle.LineItems, LineItemSampleSize),
		},
		InsiderTrades: models.InsiderTradeSnapshot{
			Count:     len(bundle.InsiderTrades),
			DateRange: tradeDateRange(bundle.InsiderTrades),
			Sample:    head(bundle.InsiderTrades, TradeSampleSize),
		},
		News: models.NewsSnapshot{
			Count:     len(bundle.News),
			DateRange: newsDateRange(bundle.News),
			Headlines: headlines,
		},
		Facts: facts,
	}
}

// SummarizeCoverage reduces the snapshot to counts, date ranges and facts presence
func SummarizeCoverage(bundle models.DataBundle) models.CoverageSummary {
	snapshot := BuildSnapshot(bundle)
	return models.CoverageSummary{
		Prices:        models.CollectionCoverage{Count: snapshot.Prices.Count, DateRange: snapshot.Prices.DateRange},
		Metrics:       models.CollectionCoverage{Count: snapshot.Metrics.Count},
		LineItems:     models.CollectionCoverage{Count: snapshot.LineItems.Count},
		InsiderTrades: models.CollectionCoverage{Count: snapshot.InsiderTrades.Count, DateRange: snapshot.InsiderTrades.DateRange},
		News:          models.CollectionCoverage{Count: snapshot.News.Count, DateRange: snapshot.News.DateRange},
		FactsPresent:  snapshot.Facts != nil,
	}
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}

func priceDateRange(prices []models.PriceBar) *models.DateRange {
	raw := make([]string, 0, len(prices))
	for _, p := range prices {
		raw = append(raw, p.Time)
	}
	return dateRange(raw)
}

func tradeDateRange(trades []models.InsiderTrade) *models.DateRange {
	raw := make([]string, 0, len(trades))
	for _, t := range trades {
		raw = append(raw, t.Date)
	}
	return dateRange(raw)
}

func newsDateRange(news []models.NewsArticle) *models.DateRange {
	raw := make([]string, 0, len(news))
	for _, n := range news {
		raw = append(raw, n.PublishedAt)
	}
	return dateRange(raw)
}

// dateRange returns the min/max calendar dates of the parseable values.
// When none parse it falls back to the lexicographic min/max of the raw
// strings, which is not necessarily chronological. Empty values are ignored;
// nil means no dated records at all.
func dateRange(values []string) *models.DateRange {
	raw := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			raw = append(raw, v)
		}
	}
	if len(raw) == 0 {
		return nil
	}

	var earliest, latest time.Time
	parsed := 0
	for _, v := range raw {
		t, ok := common.ParseISODate(v)
		if !ok {
			continue
		}
		if parsed == 0 || t.Before(earliest) {
			earliest = t
		}
		if parsed == 0 || t.After(latest) {
			latest = t
		}
		parsed++
	}
	if parsed > 0 {
		return &models.DateRange{Start: common.FormatDate(earliest), End: common.FormatDate(latest)}
	}

	sort.Strings(raw)
	return &models.DateRange{Start: raw[0], End: raw[len(raw)-1]}
}
