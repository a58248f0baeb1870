package models

import (
	"encoding/json"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

// MetricsRecord is a sparse set of financial ratios for one reporting period.
// Numeric fields land in Values, explicit nulls in Nulls and descriptive
// strings (ticker, report_period, currency, ...) in Labels. Keeping absent
// values out of the maps lets the record round-trip through gob.
type MetricsRecord struct {
	Labels map[string]string  `json:"-" yaml:"-"`
	Values map[string]float64 `json:"-" yaml:"-"`
	Nulls  []string           `json:"-" yaml:"-"`
}

// NewMetricsRecord builds a record holding only numeric values.
func NewMetricsRecord(values map[string]float64) MetricsRecord {
	rec := MetricsRecord{Values: make(map[string]float64, len(values))}
	for k, v := range values {
		rec.Values[k] = v
	}
	return rec
}

// Value returns the named ratio and whether it was reported.
func (m MetricsRecord) Value(key string) (float64, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// IsEmpty reports whether the record carries no fields at all
func (m MetricsRecord) IsEmpty() bool {
	return len(m.Labels) == 0 && len(m.Values) == 0 && len(m.Nulls) == 0
}

// UnmarshalJSON accepts a flat JSON object of mixed field types.
func (m *MetricsRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = metricsFromMap(raw)
	return nil
}

// UnmarshalYAML accepts a flat YAML mapping; .nan and .inf survive decoding.
func (m *MetricsRecord) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*m = metricsFromMap(raw)
	return nil
}

// MarshalJSON flattens the record back into one object. Non-finite values
// are written as null since JSON cannot carry them.
func (m MetricsRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Labels)+len(m.Values)+len(m.Nulls))
	for k, v := range m.Labels {
		out[k] = v
	}
	for k, v := range m.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	for _, k := range m.Nulls {
		out[k] = nil
	}
	return json.Marshal(out)
}

func metricsFromMap(raw map[string]interface{}) MetricsRecord {
	rec := MetricsRecord{
		Labels: make(map[string]string),
		Values: make(map[string]float64),
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := raw[k].(type) {
		case nil:
			rec.Nulls = append(rec.Nulls, k)
		case float64:
			rec.Values[k] = v
		case float32:
			rec.Values[k] = float64(v)
		case int:
			rec.Values[k] = float64(v)
		case int64:
			rec.Values[k] = float64(v)
		case uint64:
			rec.Values[k] = float64(v)
		case string:
			rec.Labels[k] = v
		}
	}
	return rec
}
