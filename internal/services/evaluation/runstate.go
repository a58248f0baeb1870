package evaluation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/verity/internal/models"
)

// Run state keys
const (
	StateTicker         = "ticker"
	StateDataCoverage   = "data_coverage"
	StateDataWarnings   = "data_warnings"
	StateFeatureSignals = "feature_signals"
	StateVerification   = "verification"
	StateFinalPolicy    = "final_policy"

	// ResultSuffix marks an advisor's raw output, e.g. "warren_result"
	ResultSuffix = "_result"
)

// bundleStateKeys are the run state entries that make up the data bundle
var bundleStateKeys = []string{StateTicker, "prices", "metrics", "items", "trades", "news", "facts"}

// RunState is the loosely typed state shared between workflow steps
type RunState map[string]interface{}

// RequestFromRunState reads a bundle and the advisor outputs from state.
// String outputs are used as-is; structured outputs are re-encoded as JSON.
func RequestFromRunState(state RunState) (models.EvaluationRequest, error) {
	subset := make(map[string]interface{}, len(bundleStateKeys))
	for _, key := range bundleStateKeys {
		if v, ok := state[key]; ok && v != nil {
			subset[key] = v
		}
	}

	data, err := json.Marshal(subset)
	if err != nil {
		return models.EvaluationRequest{}, fmt.Errorf("failed to encode run state bundle: %w", err)
	}
	var bundle models.DataBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return models.EvaluationRequest{}, fmt.Errorf("failed to decode run state bundle: %w", err)
	}

	outputs := make(map[string]string)
	for key, v := range state {
		advisor, ok := strings.CutSuffix(key, ResultSuffix)
		if !ok || advisor == "" || v == nil {
			continue
		}
		switch raw := v.(type) {
		case string:
			outputs[advisor] = raw
		default:
			encoded, err := json.Marshal(raw)
			if err != nil {
				return models.EvaluationRequest{}, fmt.Errorf("failed to encode %s: %w", key, err)
			}
			outputs[advisor] = string(encoded)
		}
	}

	return models.EvaluationRequest{
		Ticker:  bundle.Ticker,
		Bundle:  bundle,
		Outputs: outputs,
	}, nil
}

// Apply writes the evaluation outputs into the state
func (s RunState) Apply(result *models.RunResult) {
	if result == nil {
		return
	}
	s[StateDataCoverage] = result.Coverage
	s[StateDataWarnings] = result.Warnings
	s[StateFeatureSignals] = result.Signals
	s[StateVerification] = result.Verification
	s[StateFinalPolicy] = result.Decision
}
