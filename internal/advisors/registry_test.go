package advisors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/models"
	"github.com/ternarybob/verity/internal/signals"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{KeyWarren, KeyBill, KeyRobin}, r.Keys())

	total := 0.0
	for _, p := range r.Personas() {
		total += p.BaseWeight
		for _, key := range p.AllowedEvidenceKeys {
			assert.True(t, signals.IsCatalogKey(key), "%s cites unknown key %s", p.Key, key)
		}
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	warren, ok := r.Get(KeyWarren)
	require.True(t, ok)
	assert.Equal(t, 0.4, warren.BaseWeight)
	assert.Equal(t, DefaultMinClaims, r.MinClaims(KeyWarren))
}

func TestRegistry_UnknownAdvisor(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Get("nobody")
	assert.False(t, ok)
	assert.Equal(t, 0, r.MinClaims("nobody"))
	assert.Equal(t, signals.Catalog(), r.AllowedEvidenceKeys("nobody"))
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := DefaultRegistry()

	keys := r.AllowedEvidenceKeys(KeyRobin)
	keys[0] = "tampered"
	p, _ := r.Get(KeyRobin)
	p.AllowedEvidenceKeys[1] = "tampered"

	assert.Equal(t, signals.KeyPriceTrend10d, r.AllowedEvidenceKeys(KeyRobin)[0])
	assert.Equal(t, signals.KeyPriceTrend30d, r.AllowedEvidenceKeys(KeyRobin)[1])
}

func TestNewRegistry_Errors(t *testing.T) {
	valid := DefaultPersonas()[0]

	tests := []struct {
		name    string
		mutate  func(p *Persona)
		wantErr string
	}{
		{"missing key", func(p *Persona) { p.Key = "" }, "invalid persona"},
		{"weight above one", func(p *Persona) { p.BaseWeight = 1.5 }, "invalid persona"},
		{"no evidence keys", func(p *Persona) { p.AllowedEvidenceKeys = nil }, "invalid persona"},
		{"max below min", func(p *Persona) { p.MinClaims, p.MaxClaims = 4, 2 }, "invalid persona"},
		{"unknown collection", func(p *Persona) { p.RequiresAny = []string{"filings"} }, "invalid persona"},
		{"unknown evidence key", func(p *Persona) { p.AllowedEvidenceKeys = []string{"vibes"} }, "unknown evidence key: vibes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := clonePersona(valid)
			tt.mutate(&p)

			_, err := NewRegistry(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("duplicate key", func(t *testing.T) {
		_, err := NewRegistry(valid, valid)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate persona key: warren")
	})
}

func TestFromConfig(t *testing.T) {
	weight := 0.5
	minClaims := 1
	maxClaims := 2

	r, err := FromConfig([]common.AdvisorConfig{
		{Key: KeyRobin, BaseWeight: &weight, FocusHint: "Only momentum."},
		{
			Key:                 "cathie",
			Title:               "GROWTH",
			AllowedEvidenceKeys: []string{signals.KeyRevenueGrowth},
			MinClaims:           &minClaims,
			MaxClaims:           &maxClaims,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{KeyWarren, KeyBill, KeyRobin, "cathie"}, r.Keys())

	robin, _ := r.Get(KeyRobin)
	assert.Equal(t, 0.5, robin.BaseWeight)
	assert.Equal(t, "Only momentum.", robin.FocusHint)
	assert.Equal(t, "ROBINHOOD COACH", robin.Title)
	assert.Equal(t, []string{CollectionPrices}, robin.RequiresAny)

	cathie, _ := r.Get("cathie")
	assert.Equal(t, "GROWTH", cathie.Title)
	assert.Equal(t, 0.0, cathie.BaseWeight)
	assert.Equal(t, 1, cathie.MinClaims)
	assert.Equal(t, 2, cathie.MaxClaims)
}

func TestFromConfig_RejectsUnknownEvidence(t *testing.T) {
	_, err := FromConfig([]common.AdvisorConfig{
		{Key: KeyBill, AllowedEvidenceKeys: []string{"rumours"}},
	})

	require.Error(t, err)
}

func TestPersona_InsufficientData(t *testing.T) {
	personas := DefaultRegistry()
	warren, _ := personas.Get(KeyWarren)
	bill, _ := personas.Get(KeyBill)
	robin, _ := personas.Get(KeyRobin)

	t.Run("empty bundle without warnings uses note", func(t *testing.T) {
		msg, insufficient := warren.InsufficientData(models.DataBundle{}, nil)

		assert.True(t, insufficient)
		assert.Equal(t, "Insufficient fundamental data to provide a long-term assessment.\n"+
			"Data warnings:\n- Missing metrics and line items.", msg)
	})

	t.Run("empty bundle lists warnings", func(t *testing.T) {
		msg, insufficient := robin.InsufficientData(models.DataBundle{}, []string{"No price data available.", "No news articles available."})

		assert.True(t, insufficient)
		assert.Equal(t, "Insufficient price data to assess short-term momentum.\n"+
			"Data warnings:\n- No price data available.\n- No news articles available.", msg)
	})

	t.Run("any required collection suffices", func(t *testing.T) {
		bundle := models.DataBundle{News: []models.NewsArticle{{Title: "x"}}}

		_, insufficient := bill.InsufficientData(bundle, nil)
		assert.False(t, insufficient)

		_, insufficient = warren.InsufficientData(bundle, nil)
		assert.True(t, insufficient)
	})

	t.Run("no requirement always sufficient", func(t *testing.T) {
		p := Persona{Key: "open"}
		assert.True(t, p.HasRequiredData(models.DataBundle{}))
	})

	t.Run("facts collection", func(t *testing.T) {
		p := Persona{RequiresAny: []string{CollectionFacts}}
		assert.False(t, p.HasRequiredData(models.DataBundle{}))
		assert.True(t, p.HasRequiredData(models.DataBundle{Facts: &models.CompanyFacts{Name: "Apple"}}))
	})
}
