package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/verity/internal/models"
)

func signal(key string, value float64, sign int) models.FeatureSignal {
	return models.FeatureSignal{Key: key, Value: &value, Sign: sign}
}

func undefined(key string) models.FeatureSignal {
	return models.FeatureSignal{Key: key}
}

func analysisWith(claims ...models.Claim) models.StructuredAnalysis {
	return models.StructuredAnalysis{Agent: "warren", Ticker: "AAPL", Claims: claims}
}

func TestCheckClaim_BullishRevenueGrowth(t *testing.T) {
	claim := models.Claim{
		Statement:    "Revenue is growing",
		Stance:       models.StanceBullish,
		EvidenceKeys: []string{"revenue_growth"},
	}

	tests := []struct {
		name         string
		signal       models.FeatureSignal
		wantVerified bool
		wantMatches  int
	}{
		{"positive growth supports bullish", signal("revenue_growth", 0.12, 1), true, 1},
		{"negative growth contradicts bullish", signal("revenue_growth", -0.02, -1), false, 0},
		{"undefined signal cannot support bullish", undefined("revenue_growth"), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckClaim(claim, models.SignalSet{"revenue_growth": tt.signal})

			assert.Equal(t, tt.wantVerified, check.Verified)
			assert.Len(t, check.MatchedEvidence, tt.wantMatches)
			assert.Equal(t, []string{"revenue_growth"}, check.ValidEvidenceKeys)
			assert.Empty(t, check.InvalidEvidenceKeys)
		})
	}
}

func TestCheckClaim_Bearish(t *testing.T) {
	signals := models.SignalSet{
		"debt_to_equity": signal("debt_to_equity", 3.2, -1),
		"net_margin":     signal("net_margin", 0.1, 1),
	}
	claim := models.Claim{
		Stance:       models.StanceBearish,
		EvidenceKeys: []string{"net_margin", "debt_to_equity"},
	}

	check := CheckClaim(claim, signals)

	require.True(t, check.Verified)
	require.Len(t, check.MatchedEvidence, 1)
	assert.Equal(t, "debt_to_equity", check.MatchedEvidence[0].Key)
	assert.Equal(t, -1, check.MatchedEvidence[0].Signal)
	assert.Equal(t, 3.2, *check.MatchedEvidence[0].Value)
}

func TestCheckClaim_NeutralMatchesAnyValidKey(t *testing.T) {
	signals := models.SignalSet{
		"price_trend_30d": signal("price_trend_30d", -8, -1),
		"news_count_30d":  signal("news_count_30d", 0, 0),
	}

	for _, key := range []string{"price_trend_30d", "news_count_30d"} {
		t.Run(key, func(t *testing.T) {
			check := CheckClaim(models.Claim{Stance: models.StanceNeutral, EvidenceKeys: []string{key}}, signals)
			assert.True(t, check.Verified)
		})
	}

	t.Run("undefined signal still verifies", func(t *testing.T) {
		check := CheckClaim(models.Claim{Stance: models.StanceNeutral, EvidenceKeys: []string{"net_margin"}},
			models.SignalSet{"net_margin": undefined("net_margin")})
		assert.True(t, check.Verified)
	})
}

func TestCheckClaim_InvalidKeys(t *testing.T) {
	signals := models.SignalSet{"revenue_growth": signal("revenue_growth", 0.2, 1)}

	t.Run("only invalid keys never verify", func(t *testing.T) {
		check := CheckClaim(models.Claim{Stance: models.StanceNeutral, EvidenceKeys: []string{"vibes"}}, signals)

		assert.False(t, check.Verified)
		assert.Empty(t, check.ValidEvidenceKeys)
		assert.Equal(t, []string{"vibes"}, check.InvalidEvidenceKeys)
	})

	t.Run("invalid keys do not fail a supported claim", func(t *testing.T) {
		check := CheckClaim(models.Claim{Stance: models.StanceBullish, EvidenceKeys: []string{"vibes", "revenue_growth"}}, signals)

		assert.True(t, check.Verified)
		assert.Equal(t, []string{"revenue_growth"}, check.ValidEvidenceKeys)
		assert.Equal(t, []string{"vibes"}, check.InvalidEvidenceKeys)
	})

	t.Run("no keys", func(t *testing.T) {
		check := CheckClaim(models.Claim{Stance: models.StanceNeutral}, signals)

		assert.False(t, check.Verified)
		assert.NotNil(t, check.EvidenceKeys)
		assert.NotNil(t, check.MatchedEvidence)
	})
}

func TestVerifyAnalysisClaims_Rate(t *testing.T) {
	signals := models.SignalSet{
		"revenue_growth": signal("revenue_growth", 0.2, 1),
		"net_margin":     signal("net_margin", -0.1, -1),
	}

	tests := []struct {
		name         string
		claims       []models.Claim
		wantVerified int
		wantRate     float64
	}{
		{"no claims", nil, 0, 0},
		{"all verified", []models.Claim{
			{Stance: models.StanceBullish, EvidenceKeys: []string{"revenue_growth"}},
		}, 1, 1},
		{"one of three", []models.Claim{
			{Stance: models.StanceBullish, EvidenceKeys: []string{"revenue_growth"}},
			{Stance: models.StanceBullish, EvidenceKeys: []string{"net_margin"}},
			{Stance: models.StanceBearish, EvidenceKeys: []string{"unknown"}},
		}, 1, 0.3333},
		{"two of three", []models.Claim{
			{Stance: models.StanceBullish, EvidenceKeys: []string{"revenue_growth"}},
			{Stance: models.StanceBearish, EvidenceKeys: []string{"net_margin"}},
			{Stance: models.StanceBearish, EvidenceKeys: []string{"revenue_growth"}},
		}, 2, 0.6667},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := VerifyAnalysisClaims(analysisWith(tt.claims...), signals)

			assert.Equal(t, "warren", report.Agent)
			assert.Equal(t, len(tt.claims), report.ClaimCount)
			assert.Equal(t, tt.wantVerified, report.VerifiedClaimCount)
			assert.Equal(t, tt.wantRate, report.VerificationRate)
			assert.GreaterOrEqual(t, report.VerificationRate, 0.0)
			assert.LessOrEqual(t, report.VerificationRate, 1.0)
			assert.Len(t, report.Checks, len(tt.claims))
			assert.NotNil(t, report.Checks)
		})
	}
}

func TestVerifyAnalysisClaims_IdempotentAndOrderIndependent(t *testing.T) {
	signals := models.SignalSet{
		"revenue_growth":  signal("revenue_growth", 0.2, 1),
		"debt_to_equity":  signal("debt_to_equity", 2, -1),
		"price_trend_10d": signal("price_trend_10d", 1.5, 1),
	}
	claims := []models.Claim{
		{Statement: "a", Stance: models.StanceBullish, EvidenceKeys: []string{"revenue_growth"}},
		{Statement: "b", Stance: models.StanceBullish, EvidenceKeys: []string{"debt_to_equity"}},
		{Statement: "c", Stance: models.StanceNeutral, EvidenceKeys: []string{"price_trend_10d"}},
	}
	reversed := []models.Claim{claims[2], claims[1], claims[0]}

	first := VerifyAnalysisClaims(analysisWith(claims...), signals)
	second := VerifyAnalysisClaims(analysisWith(claims...), signals)
	flipped := VerifyAnalysisClaims(analysisWith(reversed...), signals)

	assert.Equal(t, first, second)
	assert.Equal(t, first.VerifiedClaimCount, flipped.VerifiedClaimCount)
	assert.Equal(t, first.VerificationRate, flipped.VerificationRate)
	for i, check := range first.Checks {
		assert.Equal(t, check, flipped.Checks[len(flipped.Checks)-1-i])
	}
}

func TestVerifyAll(t *testing.T) {
	signals := models.SignalSet{"revenue_growth": signal("revenue_growth", 0.2, 1)}
	analyses := map[string]models.StructuredAnalysis{
		"warren": analysisWith(models.Claim{Stance: models.StanceBullish, EvidenceKeys: []string{"revenue_growth"}}),
		"bill":   {Agent: "bill"},
	}

	reports := VerifyAll(analyses, signals)

	require.Len(t, reports, 2)
	assert.Equal(t, 1.0, reports["warren"].VerificationRate)
	assert.Equal(t, 0.0, reports["bill"].VerificationRate)
	assert.Equal(t, 0, reports["bill"].ClaimCount)
}

func TestExpectedSign(t *testing.T) {
	assert.Equal(t, 1, ExpectedSign(models.StanceBullish))
	assert.Equal(t, -1, ExpectedSign(models.StanceBearish))
	assert.Equal(t, 0, ExpectedSign(models.StanceNeutral))
	assert.Equal(t, 0, ExpectedSign(models.Stance("sideways")))
}
