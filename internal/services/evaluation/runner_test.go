package evaluation

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/models"
	"github.com/ternarybob/verity/internal/tracing"
)

// memoryRuns records every saved status in order
type memoryRuns struct {
	mu       sync.Mutex
	runs     map[string]models.AnalysisRun
	statuses []models.RunStatus
	failOn   models.RunStatus
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: make(map[string]models.AnalysisRun)}
}

func (m *memoryRuns) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && run.Status == m.failOn {
		return errors.New("disk full")
	}
	m.runs[run.ID] = *run
	m.statuses = append(m.statuses, run.Status)
	return nil
}

func (m *memoryRuns) GetRun(ctx context.Context, id string) (*models.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &run, nil
}

func (m *memoryRuns) ListRuns(ctx context.Context, opts *interfaces.RunListOptions) ([]*models.AnalysisRun, error) {
	return nil, nil
}

func (m *memoryRuns) DeleteRun(ctx context.Context, id string) error { return nil }

func (m *memoryRuns) CountRuns(ctx context.Context) (int, error) { return len(m.runs), nil }

// stubEvaluator returns a canned result or error
type stubEvaluator struct {
	result *models.RunResult
	err    error
}

func (s stubEvaluator) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.RunResult, error) {
	return s.result, s.err
}

func TestRunner_Completed(t *testing.T) {
	svc, _ := newTestService(t)
	runs := newMemoryRuns()
	runner := NewRunner(svc, runs, arbor.NewLogger())

	run, err := runner.Run(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.True(t, common.IsRunID(run.ID))
	assert.Equal(t, "AAPL", run.Ticker)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, models.RecommendationBuy, run.Result.Decision.FinalRecommendation)
	assert.Empty(t, run.Error)

	assert.Equal(t, []models.RunStatus{
		models.RunStatusQueued,
		models.RunStatusRunning,
		models.RunStatusCompleted,
	}, runs.statuses)

	stored, err := runs.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, stored.Status)
}

func TestRunner_Failed(t *testing.T) {
	runs := newMemoryRuns()
	cause := errors.New("advisor exploded")
	runner := NewRunner(stubEvaluator{err: cause}, runs, nil)

	run, err := runner.Run(context.Background(), models.EvaluationRequest{Ticker: "msft"})

	assert.ErrorIs(t, err, cause)
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Equal(t, "advisor exploded", run.Error)
	assert.Nil(t, run.Result)
	assert.Equal(t, models.RunStatusFailed, runs.statuses[len(runs.statuses)-1])
}

func TestRunner_SaveErrors(t *testing.T) {
	t.Run("queued save fails", func(t *testing.T) {
		runs := newMemoryRuns()
		runs.failOn = models.RunStatusQueued
		runner := NewRunner(stubEvaluator{result: &models.RunResult{}}, runs, nil)

		run, err := runner.Run(context.Background(), models.EvaluationRequest{Ticker: "msft"})

		assert.Error(t, err)
		assert.Nil(t, run)
	})

	t.Run("completed save fails", func(t *testing.T) {
		runs := newMemoryRuns()
		runs.failOn = models.RunStatusCompleted
		runner := NewRunner(stubEvaluator{result: &models.RunResult{}}, runs, nil)

		run, err := runner.Run(context.Background(), models.EvaluationRequest{Ticker: "msft"})

		assert.Error(t, err)
		require.NotNil(t, run)
		assert.Equal(t, models.RunStatusCompleted, run.Status)
	})
}

func TestRunner_WithoutStore(t *testing.T) {
	runner := NewRunner(stubEvaluator{result: &models.RunResult{Ticker: "MSFT"}}, nil, nil)

	run, err := runner.Run(context.Background(), models.EvaluationRequest{Ticker: "msft"})

	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, "MSFT", run.Result.Ticker)
}

func TestWrap_RecordsSpans(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tracing.InitWithWriter(common.TracingConfig{Enabled: true}, &buf))
	t.Cleanup(func() { _ = tracing.Shutdown(context.Background()) })

	svc, _ := newTestService(t)
	wrapped := Wrap(svc, arbor.NewLogger())

	result, err := wrapped.Evaluate(context.Background(), fullRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationBuy, result.Decision.FinalRecommendation)

	out := buf.String()
	assert.Contains(t, out, `"Name":"evaluation.Evaluate"`)
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte(`"Name":"evaluation.advisor"`)))
	assert.Contains(t, out, `"Value":"buy"`)
}

func TestWrap_PropagatesErrors(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(stubEvaluator{err: cause}, nil)

	result, err := wrapped.Evaluate(context.Background(), models.EvaluationRequest{Ticker: "x"})

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, result)
}
