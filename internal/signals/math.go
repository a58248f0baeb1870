package signals

// pctChange calculates the percentage change from old to newVal
func pctChange(old, newVal float64) float64 {
	if old == 0 {
		return 0
	}
	return ((newVal - old) / old) * 100
}
