// Package policy aggregates advisor analyses and their verification reports
// into a single, explainable recommendation.
//
// Each advisor contributes its recommendation score weighted by
// base_weight * reliability, where reliability blends the advisor's own
// confidence with how many of its claims survived verification. The
// consensus is then discounted for thin data coverage and data warnings.
// Any abstain trigger overrides the score.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
)

// Engine computes policy decisions from an immutable weight table.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	weights []AdvisorWeight
}

// NewEngine creates an engine over weights, evaluated in the given order.
// With no weights the default table is used.
func NewEngine(weights ...AdvisorWeight) (*Engine, error) {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	if err := validateWeights(weights); err != nil {
		return nil, err
	}
	return &Engine{weights: append([]AdvisorWeight(nil), weights...)}, nil
}

// Weights returns a copy of the weight table
func (e *Engine) Weights() []AdvisorWeight {
	return append([]AdvisorWeight(nil), e.weights...)
}

// Compute produces the final decision. Advisors in the weight table without
// an analysis count as hold with zero confidence; analyses for advisors
// outside the table are ignored for consensus. Identical inputs always give
// identical output.
func (e *Engine) Compute(
	analyses map[string]models.StructuredAnalysis,
	verification map[string]models.VerificationReport,
	coverage models.CoverageSummary,
	warnings []string,
) models.PolicyDecision {
	coverageFactor := CoverageFactor(coverage)
	penalty := WarningPenalty(len(warnings))

	breakdown := make(map[string]models.AdvisorBreakdown, len(e.weights))
	weightedSum := 0.0
	totalWeight := 0.0

	for _, w := range e.weights {
		rec := models.RecommendationHold
		confidence := 0.0
		if analysis, ok := analyses[w.Key]; ok {
			if r := strings.ToLower(strings.TrimSpace(string(analysis.Recommendation))); r != "" {
				rec = models.Recommendation(r)
			}
			confidence = finiteOrZero(analysis.Confidence)
		}

		rate := 0.0
		if report, ok := verification[w.Key]; ok {
			rate = finiteOrZero(report.VerificationRate)
		}

		score := RecommendationScore(rec)
		reliability := Reliability(confidence, rate)
		effective := w.Weight * reliability

		breakdown[w.Key] = models.AdvisorBreakdown{
			Recommendation:      rec,
			RecommendationScore: score,
			ModelConfidence:     common.Round4(confidence),
			VerificationRate:    common.Round4(rate),
			BaseWeight:          w.Weight,
			Reliability:         common.Round4(reliability),
			EffectiveWeight:     common.Round4(effective),
		}

		weightedSum += score * effective
		totalWeight += effective
	}

	consensus := 0.0
	if totalWeight > 0 {
		consensus = weightedSum / totalWeight
	}
	adjusted := consensus * coverageFactor * (1.0 - penalty)
	avgVerification := AverageVerification(verification)

	reasons := AbstainReasons(coverageFactor, avgVerification, len(warnings))

	final := models.RecommendationHold
	switch {
	case len(reasons) > 0:
		final = models.RecommendationAbstain
	case adjusted >= BuyThreshold:
		final = models.RecommendationBuy
	case adjusted <= AvoidThreshold:
		final = models.RecommendationAvoid
	}

	confidence := common.Clamp(
		ConfidenceBase+ConfidenceCoverageWeight*coverageFactor+ConfidenceVerificationWeight*avgVerification-penalty,
		0, 1)

	return models.PolicyDecision{
		FinalRecommendation: final,
		Confidence:          common.Round4(confidence),
		ConsensusScore:      common.Round4(consensus),
		AdjustedPolicyScore: common.Round4(adjusted),
		CoverageFactor:      common.Round4(coverageFactor),
		WarningCount:        len(warnings),
		AdvisorBreakdown:    breakdown,
		AbstainReasons:      reasons,
		Rationale: []string{
			fmt.Sprintf("Coverage factor: %.2f", coverageFactor),
			fmt.Sprintf("Average claim verification: %.2f", avgVerification),
			fmt.Sprintf("Consensus score: %.2f", consensus),
			fmt.Sprintf("Adjusted policy score: %.2f", adjusted),
		},
	}
}

// CoverageFactor scores data coverage in [0, 1]
func CoverageFactor(coverage models.CoverageSummary) float64 {
	score := decimal.Zero

	switch {
	case coverage.Prices.Count >= CoveragePricesFullCount:
		score = score.Add(decimal.NewFromFloat(CoveragePricesFull))
	case coverage.Prices.Count >= CoveragePricesPartialCount:
		score = score.Add(decimal.NewFromFloat(CoveragePricesPartial))
	}
	if coverage.Metrics.Count >= 1 {
		score = score.Add(decimal.NewFromFloat(CoverageMetrics))
	}
	switch {
	case coverage.News.Count >= CoverageNewsFullCount:
		score = score.Add(decimal.NewFromFloat(CoverageNewsFull))
	case coverage.News.Count >= 1:
		score = score.Add(decimal.NewFromFloat(CoverageNewsPartial))
	}
	if coverage.LineItems.Count >= 1 {
		score = score.Add(decimal.NewFromFloat(CoverageLineItems))
	}

	return decimal.Min(score, decimal.NewFromInt(1)).InexactFloat64()
}

// WarningPenalty is the score discount for count data warnings
func WarningPenalty(count int) float64 {
	penalty := WarningPenaltyPerWarning * float64(count)
	if penalty > MaxWarningPenalty {
		return MaxWarningPenalty
	}
	return penalty
}

// Reliability blends model confidence and verification rate into [0, 1]
func Reliability(confidence, verificationRate float64) float64 {
	return common.Clamp(
		ReliabilityBase+ReliabilityConfidenceWeight*confidence+ReliabilityVerificationWeight*verificationRate,
		0, 1)
}

// AverageVerification is the mean verification rate across reports, 0 when
// there are none. Reports are summed in key order.
func AverageVerification(verification map[string]models.VerificationReport) float64 {
	if len(verification) == 0 {
		return 0
	}
	keys := make([]string, 0, len(verification))
	for k := range verification {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sum := 0.0
	for _, k := range keys {
		sum += finiteOrZero(verification[k].VerificationRate)
	}
	return sum / float64(len(keys))
}

// AbstainReasons lists every abstain trigger that fired, never nil
func AbstainReasons(coverageFactor, avgVerification float64, warningCount int) []string {
	reasons := []string{}
	if coverageFactor < AbstainCoverage {
		reasons = append(reasons, ReasonLowCoverage)
	}
	if avgVerification < AbstainVerification {
		reasons = append(reasons, ReasonLowVerification)
	}
	if warningCount >= AbstainWarnings {
		reasons = append(reasons, ReasonManyWarnings)
	}
	return reasons
}

func finiteOrZero(v float64) float64 {
	if !common.IsFinite(v) {
		return 0
	}
	return v
}
