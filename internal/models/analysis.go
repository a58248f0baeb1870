package models

// Recommendation is an advisor or policy verdict
type Recommendation string

const (
	RecommendationBuy     Recommendation = "buy"
	RecommendationHold    Recommendation = "hold"
	RecommendationAvoid   Recommendation = "avoid"
	RecommendationAbstain Recommendation = "abstain" // policy only
)

// Stance is the directional posture of a claim
type Stance string

const (
	StanceBullish Stance = "bullish"
	StanceBearish Stance = "bearish"
	StanceNeutral Stance = "neutral"
)

// Claim is one natural-language assertion backed by evidence keys.
// Claims come from the generation layer and are treated as untrusted.
type Claim struct {
	Statement    string   `json:"statement"`
	Stance       Stance   `json:"stance"`
	EvidenceKeys []string `json:"evidence_keys"`
	Confidence   float64  `json:"confidence"`
}

// StructuredAnalysis is the schema-validated form of one advisor's output.
// After parsing it is only ever extended by appending caveats.
type StructuredAnalysis struct {
	Agent          string         `json:"agent"`
	Ticker         string         `json:"ticker"`
	Thesis         string         `json:"thesis"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Claims         []Claim        `json:"claims"`
	Caveats        []string       `json:"caveats"`
}

// EvidenceMatch records a signal that satisfied a claim's stance
type EvidenceMatch struct {
	Key    string   `json:"key"`
	Signal int      `json:"signal"`
	Value  *float64 `json:"value"`
}

// ClaimCheck is the verdict for a single claim
type ClaimCheck struct {
	Statement           string          `json:"statement"`
	Stance              Stance          `json:"stance"`
	EvidenceKeys        []string        `json:"evidence_keys"`
	ValidEvidenceKeys   []string        `json:"valid_evidence_keys"`
	InvalidEvidenceKeys []string        `json:"invalid_evidence_keys"`
	MatchedEvidence     []EvidenceMatch `json:"matched_evidence"`
	Verified            bool            `json:"verified"`
}

// VerificationReport aggregates claim checks for one analysis
type VerificationReport struct {
	Agent              string       `json:"agent"`
	ClaimCount         int          `json:"claim_count"`
	VerifiedClaimCount int          `json:"verified_claim_count"`
	VerificationRate   float64      `json:"verification_rate"` // verified/total, 4dp
	Checks             []ClaimCheck `json:"checks"`
}

// AdvisorBreakdown is one advisor's contribution to the consensus
type AdvisorBreakdown struct {
	Recommendation      Recommendation `json:"recommendation"`
	RecommendationScore float64        `json:"recommendation_score"`
	ModelConfidence     float64        `json:"model_confidence"`
	VerificationRate    float64        `json:"verification_rate"`
	BaseWeight          float64        `json:"base_weight"`
	Reliability         float64        `json:"reliability"`
	EffectiveWeight     float64        `json:"effective_weight"`
}

// PolicyDecision is the terminal output of a run. All floats are rounded
// to 4 decimal places.
type PolicyDecision struct {
	FinalRecommendation Recommendation              `json:"final_recommendation"`
	Confidence          float64                     `json:"confidence"`
	ConsensusScore      float64                     `json:"consensus_score"`
	AdjustedPolicyScore float64                     `json:"adjusted_policy_score"`
	CoverageFactor      float64                     `json:"coverage_factor"`
	WarningCount        int                         `json:"warning_count"`
	AdvisorBreakdown    map[string]AdvisorBreakdown `json:"advisor_breakdown"`
	AbstainReasons      []string                    `json:"abstain_reasons"`
	Rationale           []string                    `json:"rationale"`
}

// Abstained reports whether the policy declined to recommend
func (d PolicyDecision) Abstained() bool {
	return d.FinalRecommendation == RecommendationAbstain
}
