package quality

import (
	"fmt"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
)

// AnomalyScanLimit bounds how many price rows and trades are inspected
const AnomalyScanLimit = 50

// AnomalyReport counts numeric anomalies per category. Counts are per
// field for non-finite values and per row for everything else.
type AnomalyReport struct {
	NonFinitePrices    int `json:"non_finite_prices"`
	NegativeVolume     int `json:"negative_volume"`
	HighBelowLow       int `json:"high_below_low"`
	CloseOutsideRange  int `json:"close_outside_range"`
	NonFiniteMetrics   int `json:"non_finite_metrics"`
	NegativeTradePrice int `json:"negative_trade_price"`
	ShareSignConflicts int `json:"share_sign_conflicts"`
}

// Total is the number of anomalies across all categories
func (r AnomalyReport) Total() int {
	return r.NonFinitePrices + r.NegativeVolume + r.HighBelowLow + r.CloseOutsideRange +
		r.NonFiniteMetrics + r.NegativeTradePrice + r.ShareSignConflicts
}

// Warnings renders one message per non-zero category, so warning volume
// stays bounded however large the input is.
func (r AnomalyReport) Warnings() []string {
	var out []string
	add := func(count int, format string) {
		if count > 0 {
			out = append(out, fmt.Sprintf(format, count))
		}
	}
	add(r.NonFinitePrices, "Non-finite price values found (%d fields).")
	add(r.NegativeVolume, "Negative volume found (%d rows).")
	add(r.HighBelowLow, "Price high < low found (%d rows).")
	add(r.CloseOutsideRange, "Close outside high/low range found (%d rows).")
	add(r.NonFiniteMetrics, "Non-finite metric values found (%d fields).")
	add(r.NegativeTradePrice, "Negative insider trade price found (%d rows).")
	add(r.ShareSignConflicts, "Insider share sign conflicts with transaction type (%d rows).")
	return out
}

// ScanAnomalies inspects the first AnomalyScanLimit price rows and trades
// plus the latest metrics record.
func ScanAnomalies(bundle models.DataBundle) AnomalyReport {
	var r AnomalyReport

	for _, p := range head(bundle.Prices, AnomalyScanLimit) {
		for _, v := range []float64{p.Open, p.Close, p.High, p.Low} {
			if !common.IsFinite(v) {
				r.NonFinitePrices++
			}
		}
		if p.Volume < 0 {
			r.NegativeVolume++
		}
		// NaN comparisons are false, so non-finite rows only count above
		if p.High < p.Low {
			r.HighBelowLow++
		}
		if p.Close < p.Low || p.Close > p.High {
			r.CloseOutsideRange++
		}
	}

	for _, v := range bundle.LatestMetrics().Values {
		if !common.IsFinite(v) {
			r.NonFiniteMetrics++
		}
	}

	for _, t := range head(bundle.InsiderTrades, AnomalyScanLimit) {
		if t.Price != nil && *t.Price < 0 {
			r.NegativeTradePrice++
		}
		if t.Shares != nil && *t.Shares != 0 {
			dir := t.Direction()
			if dir != 0 && common.SignOf(float64(*t.Shares)) != dir {
				r.ShareSignConflicts++
			}
		}
	}

	return r
}
