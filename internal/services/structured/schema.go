// Package structured turns free-form advisor output into a schema-validated
// StructuredAnalysis. Parsing is a two-stage pipeline: tolerant extraction of
// a JSON object from the raw text, then schema validation with defaults.
// Any failure yields the canonical fallback analysis alongside the cause.
package structured

import (
	"github.com/ternarybob/verity/internal/models"
)

// Defaults applied to fields the generation layer omitted
const (
	DefaultConfidence      = 0.5
	DefaultClaimConfidence = 0.5
	FallbackConfidence     = 0.15
	FallbackThesis         = "Insufficient evidence for a high-confidence recommendation."

	// RawSnippetLength bounds the raw text quoted in a fallback caveat
	RawSnippetLength = 300
)

// analysisDocument is the wire shape of an analysis. Pointer fields tell an
// omitted field apart from a zero value.
type analysisDocument struct {
	Agent          string          `json:"agent"`
	Ticker         string          `json:"ticker"`
	Thesis         *string         `json:"thesis"`
	Recommendation *string         `json:"recommendation" validate:"omitempty,oneof=buy hold avoid"`
	Confidence     *float64        `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Claims         []claimDocument `json:"claims" validate:"dive"`
	Caveats        []string        `json:"caveats"`
}

type claimDocument struct {
	Statement    *string  `json:"statement" validate:"required"`
	Stance       *string  `json:"stance" validate:"omitempty,oneof=bullish bearish neutral"`
	EvidenceKeys []string `json:"evidence_keys"`
	Confidence   *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

// toAnalysis fills defaults and converts to the domain model
func (d analysisDocument) toAnalysis() models.StructuredAnalysis {
	analysis := models.StructuredAnalysis{
		Agent:          d.Agent,
		Ticker:         d.Ticker,
		Recommendation: models.RecommendationHold,
		Confidence:     DefaultConfidence,
		Claims:         make([]models.Claim, 0, len(d.Claims)),
		Caveats:        make([]string, 0, len(d.Caveats)),
	}
	if d.Thesis != nil {
		analysis.Thesis = *d.Thesis
	}
	if d.Recommendation != nil {
		analysis.Recommendation = models.Recommendation(*d.Recommendation)
	}
	if d.Confidence != nil {
		analysis.Confidence = *d.Confidence
	}
	analysis.Caveats = append(analysis.Caveats, d.Caveats...)

	for _, c := range d.Claims {
		claim := models.Claim{
			Statement:    *c.Statement,
			Stance:       models.StanceNeutral,
			EvidenceKeys: append(make([]string, 0, len(c.EvidenceKeys)), c.EvidenceKeys...),
			Confidence:   DefaultClaimConfidence,
		}
		if c.Stance != nil {
			claim.Stance = models.Stance(*c.Stance)
		}
		if c.Confidence != nil {
			claim.Confidence = *c.Confidence
		}
		analysis.Claims = append(analysis.Claims, claim)
	}

	return analysis
}
