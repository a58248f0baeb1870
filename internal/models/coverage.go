package models

// DateRange is the earliest and latest date seen in a collection.
// Dates are YYYY-MM-DD when parseable, otherwise the raw strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CollectionCoverage is the count and optional date range of a collection
type CollectionCoverage struct {
	Count     int        `json:"count"`
	DateRange *DateRange `json:"date_range,omitempty"`
}

// CoverageSummary is the reduced view of a Snapshot consumed by the policy
// engine. It is recomputed on demand and never persisted on its own.
type CoverageSummary struct {
	Prices        CollectionCoverage `json:"prices"`
	Metrics       CollectionCoverage `json:"metrics"`
	LineItems     CollectionCoverage `json:"line_items"`
	InsiderTrades CollectionCoverage `json:"insider_trades"`
	News          CollectionCoverage `json:"news"`
	FactsPresent  bool               `json:"facts_present"`
}

// PriceSnapshot summarises the price series
type PriceSnapshot struct {
	Count     int        `json:"count"`
	DateRange *DateRange `json:"date_range,omitempty"`
	Sample    []PriceBar `json:"sample"`
}

// MetricsSnapshot summarises the metrics history
type MetricsSnapshot struct {
	Count  int           `json:"count"`
	Latest MetricsRecord `json:"latest"`
}

// LineItemSnapshot summarises reported line items
type LineItemSnapshot struct {
	Count  int        `json:"count"`
	Sample []LineItem `json:"sample"`
}

// InsiderTradeSnapshot summarises insider activity
type InsiderTradeSnapshot struct {
	Count     int            `json:"count"`
	DateRange *DateRange     `json:"date_range,omitempty"`
	Sample    []InsiderTrade `json:"sample"`
}

// NewsSnapshot summarises news coverage
type NewsSnapshot struct {
	Count     int        `json:"count"`
	DateRange *DateRange `json:"date_range,omitempty"`
	Headlines []string   `json:"headlines"`
}

// Snapshot is the display-oriented view of a DataBundle. Nothing
// downstream of the quality stage reads it for computation.
type Snapshot struct {
	Prices        PriceSnapshot        `json:"prices"`
	Metrics       MetricsSnapshot      `json:"metrics"`
	LineItems     LineItemSnapshot     `json:"line_items"`
	InsiderTrades InsiderTradeSnapshot `json:"insider_trades"`
	News          NewsSnapshot         `json:"news"`
	Facts         *CompanyFacts        `json:"facts,omitempty"`
}
