package interfaces

import (
	"context"

	"github.com/ternarybob/verity/internal/models"
)

// EvaluationService runs the verification pipeline over one data bundle and
// the raw advisor outputs produced for it.
type EvaluationService interface {
	Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.RunResult, error)
}
