package models

// FeatureSignal is one deterministic, directional signal derived from a
// DataBundle. Value is nil when the inputs were missing or unusable, in
// which case Sign is always 0.
type FeatureSignal struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
	Sign  int      `json:"sign"` // -1, 0 or +1
}

// Defined reports whether the signal carries a value
func (s FeatureSignal) Defined() bool {
	return s.Value != nil
}

// SignalSet maps evidence keys to their signals for one run
type SignalSet map[string]FeatureSignal

// Has reports whether key is part of the set
func (s SignalSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}
