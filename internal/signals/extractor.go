package signals

import (
	"time"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
)

// ComputeFeatureSignals derives the full signal catalog from bundle using
// the current time for the news recency window.
func ComputeFeatureSignals(bundle models.DataBundle) models.SignalSet {
	return ComputeFeatureSignalsAt(bundle, time.Now().UTC())
}

// ComputeFeatureSignalsAt derives the full signal catalog relative to now.
// Every catalog key is always present; missing or unusable inputs yield a
// nil value with sign 0.
func ComputeFeatureSignalsAt(bundle models.DataBundle, now time.Time) models.SignalSet {
	set := make(models.SignalSet, len(catalog))

	set[KeyPriceTrend30d] = directional(KeyPriceTrend30d, trendPercent(bundle.Prices, TrendWindowLong), true)
	set[KeyPriceTrend10d] = directional(KeyPriceTrend10d, trendPercent(bundle.Prices, TrendWindowShort), true)
	set[KeyInsiderNetBuy] = directional(KeyInsiderNetBuy, insiderNetBuy(bundle.InsiderTrades), true)

	newsCount := float64(recentNewsCount(bundle.News, now, NewsWindowDays))
	newsSign := 0
	if newsCount > 0 {
		newsSign = 1
	}
	set[KeyNewsCount30d] = models.FeatureSignal{Key: KeyNewsCount30d, Value: &newsCount, Sign: newsSign}

	latest := bundle.LatestMetrics()
	for _, m := range metricPolarity {
		var value *float64
		if v, ok := latest.Value(m.key); ok && common.IsFinite(v) {
			value = &v
		}
		set[m.key] = directional(m.key, value, m.positiveGood)
	}

	return set
}

// directional wraps value as a signal, inverting the sign for metrics
// where a positive value is unfavourable.
func directional(key string, value *float64, positiveGood bool) models.FeatureSignal {
	sig := models.FeatureSignal{Key: key, Value: value}
	if value == nil {
		return sig
	}
	sig.Sign = common.SignOf(*value)
	if !positiveGood {
		sig.Sign = -sig.Sign
	}
	return sig
}

// trendPercent is the percent change from the first to the last close of
// the trailing window, or of the whole series when it is shorter.
func trendPercent(prices []models.PriceBar, window int) *float64 {
	if len(prices) < 2 {
		return nil
	}
	sample := prices
	if len(prices) >= window {
		sample = prices[len(prices)-window:]
	}
	first := sample[0].Close
	last := sample[len(sample)-1].Close
	if !common.IsFinite(first) || !common.IsFinite(last) || first == 0 {
		return nil
	}
	pct := pctChange(first, last)
	if !common.IsFinite(pct) {
		return nil
	}
	return &pct
}

// insiderNetBuy nets share counts across the first InsiderScanLimit trades.
// Returns nil when no trade carried both shares and a recognised direction.
func insiderNetBuy(trades []models.InsiderTrade) *float64 {
	if len(trades) > InsiderScanLimit {
		trades = trades[:InsiderScanLimit]
	}
	score := 0.0
	seen := false
	for _, trade := range trades {
		if trade.Shares == nil {
			continue
		}
		switch trade.Direction() {
		case 1:
			score += float64(*trade.Shares)
			seen = true
		case -1:
			score -= float64(*trade.Shares)
			seen = true
		}
	}
	if !seen {
		return nil
	}
	return &score
}

// recentNewsCount counts articles published at most days whole days ago.
// Articles without a parseable date are ignored.
func recentNewsCount(news []models.NewsArticle, now time.Time, days int) int {
	count := 0
	for _, article := range news {
		age, ok := common.DaysSince(article.PublishedAt, now)
		if !ok {
			continue
		}
		if age <= days {
			count++
		}
	}
	return count
}
