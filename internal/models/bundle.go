package models

import (
	"encoding/json"
	"math"
	"strings"
)

// PriceBar is one daily OHLCV bar. Consistency (high >= low, close within
// range, non-negative volume, finite values) is checked downstream, never
// enforced on decode.
type PriceBar struct {
	Open   float64 `json:"open" yaml:"open"`
	High   float64 `json:"high" yaml:"high"`
	Low    float64 `json:"low" yaml:"low"`
	Close  float64 `json:"close" yaml:"close"`
	Volume int64   `json:"volume" yaml:"volume"`
	Time   string  `json:"time" yaml:"time"` // ISO-8601
}

// MarshalJSON writes non-finite prices as null since JSON cannot carry them
func (p PriceBar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Open   *float64 `json:"open"`
		High   *float64 `json:"high"`
		Low    *float64 `json:"low"`
		Close  *float64 `json:"close"`
		Volume int64    `json:"volume"`
		Time   string   `json:"time"`
	}{
		Open:   finite(&p.Open),
		High:   finite(&p.High),
		Low:    finite(&p.Low),
		Close:  finite(&p.Close),
		Volume: p.Volume,
		Time:   p.Time,
	})
}

// LineItem is a single reported financial statement line
type LineItem struct {
	Name   string   `json:"name" yaml:"name"`
	Value  *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Period string   `json:"period,omitempty" yaml:"period,omitempty"`
}

// MarshalJSON omits a non-finite value
func (l LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	out := plain(l)
	out.Value = finite(l.Value)
	return json.Marshal(out)
}

// InsiderTrade is one reported insider transaction
type InsiderTrade struct {
	InsiderName     string   `json:"insider_name" yaml:"insider_name"`
	TransactionType string   `json:"transaction_type" yaml:"transaction_type"`
	Shares          *int64   `json:"shares,omitempty" yaml:"shares,omitempty"`
	Price           *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Date            string   `json:"date,omitempty" yaml:"date,omitempty"`
}

// MarshalJSON omits a non-finite price
func (t InsiderTrade) MarshalJSON() ([]byte, error) {
	type plain InsiderTrade
	out := plain(t)
	out.Price = finite(t.Price)
	return json.Marshal(out)
}

// finite returns v, or nil when v is nil, NaN or infinite
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// Direction classifies the transaction type: +1 for buys and acquisitions,
// -1 for sells and dispositions, 0 when the type is not recognised.
func (t InsiderTrade) Direction() int {
	tx := strings.ToLower(t.TransactionType)
	switch {
	case strings.Contains(tx, "buy"), strings.Contains(tx, "acquire"):
		return 1
	case strings.Contains(tx, "sell"), strings.Contains(tx, "dispose"):
		return -1
	default:
		return 0
	}
}

// NewsArticle is a single headline for the ticker
type NewsArticle struct {
	Title       string `json:"title" yaml:"title"`
	PublishedAt string `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// CompanyFacts is the sparse descriptive record for the issuer
type CompanyFacts struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Sector   string `json:"sector,omitempty" yaml:"sector,omitempty"`
	Industry string `json:"industry,omitempty" yaml:"industry,omitempty"`
	Exchange string `json:"exchange,omitempty" yaml:"exchange,omitempty"`
}

// Present reports whether any descriptive field is populated.
func (f *CompanyFacts) Present() bool {
	if f == nil {
		return false
	}
	return f.Name != "" || f.Sector != "" || f.Industry != "" || f.Exchange != ""
}

// DataBundle aggregates every raw collection gathered for one ticker.
// It is owned by the caller for one analysis run and treated as read-only
// by the quality, signal, verification and policy stages.
type DataBundle struct {
	Ticker        string          `json:"ticker" yaml:"ticker"`
	Prices        []PriceBar      `json:"prices" yaml:"prices"`
	Metrics       []MetricsRecord `json:"metrics" yaml:"metrics"`
	LineItems     []LineItem      `json:"items" yaml:"items"`
	InsiderTrades []InsiderTrade  `json:"trades" yaml:"trades"`
	News          []NewsArticle   `json:"news" yaml:"news"`
	Facts         *CompanyFacts   `json:"facts,omitempty" yaml:"facts,omitempty"`
}

// LatestMetrics returns the first metrics record, which is the most recent
// reporting period. An empty record is returned when no metrics exist.
func (b DataBundle) LatestMetrics() MetricsRecord {
	if len(b.Metrics) == 0 {
		return MetricsRecord{}
	}
	return b.Metrics[0]
}
