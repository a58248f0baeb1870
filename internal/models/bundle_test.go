package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestMarshalJSON_NonFiniteValues(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{
			name:  "price bar with NaN close",
			value: PriceBar{Open: 1, High: math.Inf(1), Low: 0.5, Close: math.NaN(), Volume: 10, Time: "2026-01-02"},
			want:  `{"open":1,"high":null,"low":0.5,"close":null,"volume":10,"time":"2026-01-02"}`,
		},
		{
			name:  "finite price bar",
			value: PriceBar{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, Time: "2026-01-02"},
			want:  `{"open":1,"high":2,"low":0.5,"close":1.5,"volume":10,"time":"2026-01-02"}`,
		},
		{
			name:  "line item with infinite value",
			value: LineItem{Name: "revenue", Value: ptr(math.Inf(-1)), Period: "2025"},
			want:  `{"name":"revenue","period":"2025"}`,
		},
		{
			name:  "line item with finite value",
			value: LineItem{Name: "revenue", Value: ptr(12.5)},
			want:  `{"name":"revenue","value":12.5}`,
		},
		{
			name:  "insider trade with NaN price",
			value: InsiderTrade{InsiderName: "Jane", TransactionType: "buy", Price: ptr(math.NaN())},
			want:  `{"insider_name":"Jane","transaction_type":"buy"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.value)

			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestMarshalJSON_RunWithNonFiniteSample(t *testing.T) {
	run := AnalysisRun{
		ID:     "run-1",
		Ticker: "AAPL",
		Result: &RunResult{
			BiasAudit: BiasAuditInput{
				Snapshot: Snapshot{
					Prices:    PriceSnapshot{Count: 1, Sample: []PriceBar{{Close: math.NaN()}}},
					LineItems: LineItemSnapshot{Count: 1, Sample: []LineItem{{Name: "revenue", Value: ptr(math.Inf(1))}}},
				},
			},
		},
	}

	out, err := json.Marshal(run)

	require.NoError(t, err)
	assert.Contains(t, string(out), `"close":null`)
}
