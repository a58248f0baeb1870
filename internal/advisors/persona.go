// Package advisors holds the advisor persona records: evidence catalogs,
// claim bounds, base weights and data requirements. Personas differ only
// in data, never in behaviour, so each one is a plain value.
package advisors

import (
	"strings"

	"github.com/ternarybob/verity/internal/models"
)

// Collection names usable in Persona.RequiresAny
const (
	CollectionPrices  = "prices"
	CollectionMetrics = "metrics"
	CollectionItems   = "items"
	CollectionTrades  = "trades"
	CollectionNews    = "news"
	CollectionFacts   = "facts"
)

// Persona describes one advisor
type Persona struct {
	Key                 string   `validate:"required"`
	Title               string   `validate:"required"`
	BaseWeight          float64  `validate:"gte=0,lte=1"`
	AllowedEvidenceKeys []string `validate:"min=1,dive,required"`
	MinClaims           int      `validate:"gte=0"`
	MaxClaims           int      `validate:"gtefield=MinClaims"`
	FocusHint           string

	// RequiresAny lists collections of which at least one must be non-empty
	// for the advisor to produce an analysis. Empty means no requirement.
	RequiresAny []string `validate:"dive,oneof=prices metrics items trades news facts"`

	// InsufficientMessage opens the message returned instead of an analysis
	InsufficientMessage string
	// MissingDataNote is listed when there are no data warnings to cite
	MissingDataNote string
}

// HasRequiredData reports whether bundle satisfies RequiresAny
func (p Persona) HasRequiredData(bundle models.DataBundle) bool {
	if len(p.RequiresAny) == 0 {
		return true
	}
	for _, c := range p.RequiresAny {
		if collectionPresent(bundle, c) {
			return true
		}
	}
	return false
}

// InsufficientData returns the persona's refusal message and true when the
// bundle lacks the data the persona needs. The message lists the data
// warnings, or MissingDataNote when there are none.
func (p Persona) InsufficientData(bundle models.DataBundle, warnings []string) (string, bool) {
	if p.HasRequiredData(bundle) {
		return "", false
	}

	lines := warnings
	if len(lines) == 0 {
		lines = []string{p.MissingDataNote}
	}

	var b strings.Builder
	b.WriteString(p.InsufficientMessage)
	b.WriteString("\nData warnings:")
	for _, w := range lines {
		b.WriteString("\n- ")
		b.WriteString(w)
	}
	return b.String(), true
}

func collectionPresent(bundle models.DataBundle, collection string) bool {
	switch collection {
	case CollectionPrices:
		return len(bundle.Prices) > 0
	case CollectionMetrics:
		return len(bundle.Metrics) > 0
	case CollectionItems:
		return len(bundle.LineItems) > 0
	case CollectionTrades:
		return len(bundle.InsiderTrades) > 0
	case CollectionNews:
		return len(bundle.News) > 0
	case CollectionFacts:
		return bundle.Facts.Present()
	default:
		return false
	}
}
