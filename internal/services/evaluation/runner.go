package evaluation

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/models"
)

// Runner evaluates requests as tracked analysis runs. Each run moves
// through queued, running and then completed or failed, and every
// transition is saved when a store is configured.
type Runner struct {
	evaluator interfaces.EvaluationService
	runs      interfaces.RunStorage
	logger    arbor.ILogger
}

// NewRunner creates a runner. A nil runs store keeps runs in memory only.
func NewRunner(evaluator interfaces.EvaluationService, runs interfaces.RunStorage, logger arbor.ILogger) *Runner {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Runner{evaluator: evaluator, runs: runs, logger: logger}
}

// Run evaluates req and returns the finished run. When evaluation fails the
// failed run is returned together with the error.
func (r *Runner) Run(ctx context.Context, req models.EvaluationRequest) (*models.AnalysisRun, error) {
	ticker := req.Ticker
	if ticker == "" {
		ticker = req.Bundle.Ticker
	}

	run := &models.AnalysisRun{
		ID:     common.NewRunID(),
		Ticker: common.NormalizeTicker(ticker),
		Status: models.RunStatusQueued,
	}
	if err := r.save(ctx, run); err != nil {
		return nil, err
	}

	run.Status = models.RunStatusRunning
	if err := r.save(ctx, run); err != nil {
		return nil, err
	}

	result, evalErr := r.evaluator.Evaluate(ctx, req)
	if evalErr != nil {
		run.Status = models.RunStatusFailed
		run.Error = evalErr.Error()
		if err := r.save(ctx, run); err != nil {
			r.logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to record failed run")
		}
		return run, evalErr
	}

	run.Status = models.RunStatusCompleted
	run.Result = result
	if err := r.save(ctx, run); err != nil {
		return run, err
	}

	r.logger.Debug().
		Str("run_id", run.ID).
		Str("ticker", run.Ticker).
		Str("status", string(run.Status)).
		Msg("Analysis run finished")

	return run, nil
}

func (r *Runner) save(ctx context.Context, run *models.AnalysisRun) error {
	if r.runs == nil {
		return nil
	}
	if err := r.runs.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}
