// Package verifier checks advisor claims against deterministic feature
// signals. A claim is verified when it cites at least one known evidence
// key and that evidence agrees with the claim's stance.
package verifier

import (
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
)

// ExpectedSign maps a stance to the signal sign that supports it.
// Neutral and unknown stances expect 0.
func ExpectedSign(stance models.Stance) int {
	switch stance {
	case models.StanceBullish:
		return 1
	case models.StanceBearish:
		return -1
	default:
		return 0
	}
}

// VerifyAnalysisClaims checks every claim in analysis against signals.
// The result depends only on its inputs.
func VerifyAnalysisClaims(analysis models.StructuredAnalysis, signals models.SignalSet) models.VerificationReport {
	checks := make([]models.ClaimCheck, 0, len(analysis.Claims))
	verified := 0

	for _, claim := range analysis.Claims {
		check := CheckClaim(claim, signals)
		if check.Verified {
			verified++
		}
		checks = append(checks, check)
	}

	total := len(analysis.Claims)
	rate := 0.0
	if total > 0 {
		rate = common.Round4(float64(verified) / float64(total))
	}

	return models.VerificationReport{
		Agent:              analysis.Agent,
		ClaimCount:         total,
		VerifiedClaimCount: verified,
		VerificationRate:   rate,
		Checks:             checks,
	}
}

// CheckClaim verifies a single claim. Evidence keys missing from signals are
// recorded as invalid but do not fail the claim on their own. A neutral
// claim matches every valid key regardless of sign.
func CheckClaim(claim models.Claim, signals models.SignalSet) models.ClaimCheck {
	check := models.ClaimCheck{
		Statement:           claim.Statement,
		Stance:              claim.Stance,
		EvidenceKeys:        append(make([]string, 0, len(claim.EvidenceKeys)), claim.EvidenceKeys...),
		ValidEvidenceKeys:   []string{},
		InvalidEvidenceKeys: []string{},
		MatchedEvidence:     []models.EvidenceMatch{},
	}

	expected := ExpectedSign(claim.Stance)

	for _, key := range claim.EvidenceKeys {
		signal, ok := signals[key]
		if !ok {
			check.InvalidEvidenceKeys = append(check.InvalidEvidenceKeys, key)
			continue
		}
		check.ValidEvidenceKeys = append(check.ValidEvidenceKeys, key)

		if expected == 0 || signal.Sign == expected {
			check.MatchedEvidence = append(check.MatchedEvidence, models.EvidenceMatch{
				Key:    key,
				Signal: signal.Sign,
				Value:  signal.Value,
			})
		}
	}

	check.Verified = len(check.ValidEvidenceKeys) > 0 && len(check.MatchedEvidence) > 0
	return check
}

// VerifyAll verifies each analysis, keyed like the input
func VerifyAll(analyses map[string]models.StructuredAnalysis, signals models.SignalSet) map[string]models.VerificationReport {
	reports := make(map[string]models.VerificationReport, len(analyses))
	for key, analysis := range analyses {
		reports[key] = VerifyAnalysisClaims(analysis, signals)
	}
	return reports
}
