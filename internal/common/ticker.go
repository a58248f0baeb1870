// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker represents a parsed, optionally exchange-qualified ticker.
// Format: [EXCHANGE:]CODE (e.g., "NASDAQ:AAPL", "MSFT")
type Ticker struct {
	// Exchange is the exchange code, empty when unqualified
	Exchange string
	// Code is the security code (e.g., "AAPL")
	Code string
	// Raw is the original ticker string
	Raw string
}

// ParseTicker parses a ticker string.
// Supports formats:
//   - "NASDAQ:AAPL" -> Exchange="NASDAQ", Code="AAPL"
//   - "aapl" -> Exchange="", Code="AAPL" (normalized to uppercase)
//   - "BRK.B" -> Exchange="", Code="BRK.B" (dots belong to the code)
func ParseTicker(ticker string) Ticker {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(strings.TrimSpace(ticker[:idx])),
			Code:     strings.ToUpper(strings.TrimSpace(ticker[idx+1:])),
			Raw:      ticker,
		}
	}

	return Ticker{
		Code: strings.ToUpper(ticker),
		Raw:  ticker,
	}
}

// String returns the normalized ticker
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// NormalizeTicker returns the canonical form used for storage keys
func NormalizeTicker(ticker string) string {
	return ParseTicker(ticker).String()
}
