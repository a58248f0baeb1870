package common

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundTo rounds value half away from zero to the given decimal places.
// Rounding goes through decimal so 0.12345 becomes 0.1235 rather than
// falling victim to its binary representation. Non-finite values are
// returned unchanged.
func RoundTo(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// Round4 rounds to the 4 decimal places used in every published score
func Round4(value float64) float64 {
	return RoundTo(value, 4)
}

// Clamp restricts value to [min, max]. NaN clamps to min.
func Clamp(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsFinite reports whether value is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// SignOf returns -1, 0 or +1 for value. Non-finite values have no sign.
func SignOf(value float64) int {
	switch {
	case !IsFinite(value):
		return 0
	case value > 0:
		return 1
	case value < 0:
		return -1
	default:
		return 0
	}
}
