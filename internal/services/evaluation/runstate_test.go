package evaluation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/verity/internal/advisors"
	"github.com/ternarybob/verity/internal/models"
)

// stateFromBundle mirrors how a workflow holds its state: decoded JSON
func stateFromBundle(t *testing.T, bundle models.DataBundle) RunState {
	t.Helper()
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	var state RunState
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func TestRequestFromRunState(t *testing.T) {
	state := stateFromBundle(t, fullBundle())
	state["warren_result"] = warrenOutput
	state["bill_result"] = map[string]interface{}{"recommendation": "avoid", "thesis": "Too levered."}
	state["robin_result"] = nil
	state["_result"] = "ignored"
	state["unrelated"] = 42

	req, err := RequestFromRunState(state)
	require.NoError(t, err)

	assert.Equal(t, "aapl", req.Ticker)
	assert.Len(t, req.Bundle.Prices, 25)
	require.Len(t, req.Bundle.Metrics, 1)
	v, ok := req.Bundle.Metrics[0].Value("revenue_growth")
	assert.True(t, ok)
	assert.Equal(t, 0.12, v)
	assert.Len(t, req.Bundle.News, 3)
	assert.Equal(t, "Apple Inc.", req.Bundle.Facts.Name)

	assert.Equal(t, map[string]string{
		advisors.KeyWarren: warrenOutput,
		advisors.KeyBill:   `{"recommendation":"avoid","thesis":"Too levered."}`,
	}, req.Outputs)
}

func TestRequestFromRunState_BadShape(t *testing.T) {
	_, err := RequestFromRunState(RunState{"prices": "not a list"})
	assert.Error(t, err)
}

func TestRunState_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	state := stateFromBundle(t, fullBundle())
	state["warren_result"] = warrenOutput

	req, err := RequestFromRunState(state)
	require.NoError(t, err)
	req.Now = testNow

	result, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	state.Apply(result)

	for _, key := range []string{StateDataCoverage, StateDataWarnings, StateFeatureSignals, StateVerification, StateFinalPolicy} {
		assert.Contains(t, state, key)
	}
	decision, ok := state[StateFinalPolicy].(models.PolicyDecision)
	require.True(t, ok)
	assert.Equal(t, result.Decision, decision)
	assert.Equal(t, result.Coverage, state[StateDataCoverage])

	before := len(state)
	state.Apply(nil)
	assert.Len(t, state, before)
}
