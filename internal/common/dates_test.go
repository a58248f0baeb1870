package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   time.Time
	}{
		{"date only", "2026-01-15", true, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"zulu", "2026-01-15T10:30:00Z", true, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"offset", "2026-01-15T10:30:00+02:00", true, time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"naive timestamp", "2026-01-15T10:30:00", true, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"fractional seconds", "2026-01-15T10:30:00.123456", true, time.Date(2026, 1, 15, 10, 30, 0, 123456000, time.UTC)},
		{"space separator", "2026-01-15 10:30:00", true, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"empty", "", false, time.Time{}},
		{"garbage", "yesterday", false, time.Time{}},
		{"us format", "01/15/2026", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseISODate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	days, ok := DaysSince("2026-02-20", now)
	assert.True(t, ok)
	assert.Equal(t, 10, days)

	days, ok = DaysSince("2026-03-03T00:00:00Z", now)
	assert.True(t, ok)
	assert.Equal(t, -1, days)

	_, ok = DaysSince("not a date", now)
	assert.False(t, ok)
}
