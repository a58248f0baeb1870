package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/verity/internal/models"
)

// Coverage contributions. A collection earns the full contribution at the
// full count, the partial contribution at the partial count, else nothing.
const (
	CoveragePricesFull         = 0.35
	CoveragePricesFullCount    = 20
	CoveragePricesPartial      = 0.2
	CoveragePricesPartialCount = 5
	CoverageMetrics            = 0.25
	CoverageNewsFull           = 0.2
	CoverageNewsFullCount      = 3
	CoverageNewsPartial        = 0.1
	CoverageLineItems          = 0.2
)

// Warning penalty
const (
	WarningPenaltyPerWarning = 0.08
	MaxWarningPenalty        = 0.5
)

// Reliability = ReliabilityBase + conf*ReliabilityConfidenceWeight + rate*ReliabilityVerificationWeight
const (
	ReliabilityBase               = 0.15
	ReliabilityConfidenceWeight   = 0.45
	ReliabilityVerificationWeight = 0.4
)

// Decision confidence = ConfidenceBase + coverage*ConfidenceCoverageWeight
// + verification*ConfidenceVerificationWeight - warning penalty
const (
	ConfidenceBase               = 0.2
	ConfidenceCoverageWeight     = 0.45
	ConfidenceVerificationWeight = 0.35
)

// Abstention triggers
const (
	AbstainCoverage     = 0.45 // coverage factor below this abstains
	AbstainVerification = 0.4  // average verification below this abstains
	AbstainWarnings     = 5    // this many warnings or more abstains
)

// Recommendation thresholds on the adjusted score
const (
	BuyThreshold   = 0.25
	AvoidThreshold = -0.25
)

// Abstain reasons
const (
	ReasonLowCoverage     = "Data coverage is too low for a reliable decision."
	ReasonLowVerification = "Too few claims are verified against deterministic checks."
	ReasonManyWarnings    = "Data warnings are high; recommendation confidence is degraded."
)

// AdvisorWeight is one row of the weight table
type AdvisorWeight struct {
	Key    string
	Weight float64
}

// DefaultWeights returns the built-in weight table. Weights sum to 1.0.
func DefaultWeights() []AdvisorWeight {
	return []AdvisorWeight{
		{Key: "warren", Weight: 0.4},
		{Key: "bill", Weight: 0.35},
		{Key: "robin", Weight: 0.25},
	}
}

func validateWeights(weights []AdvisorWeight) error {
	seen := make(map[string]struct{}, len(weights))
	for _, w := range weights {
		if strings.TrimSpace(w.Key) == "" {
			return fmt.Errorf("advisor weight has empty key")
		}
		if _, dup := seen[w.Key]; dup {
			return fmt.Errorf("duplicate advisor weight: %s", w.Key)
		}
		if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) || w.Weight < 0 {
			return fmt.Errorf("advisor %s has invalid weight %v", w.Key, w.Weight)
		}
		seen[w.Key] = struct{}{}
	}
	return nil
}

// RecommendationScore maps a recommendation to +1, 0 or -1. Unknown values
// score 0.
func RecommendationScore(rec models.Recommendation) float64 {
	switch rec {
	case models.RecommendationBuy:
		return 1.0
	case models.RecommendationAvoid:
		return -1.0
	default:
		return 0.0
	}
}
