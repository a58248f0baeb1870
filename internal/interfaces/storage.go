package interfaces

import (
	"context"

	"github.com/ternarybob/verity/internal/models"
)

// RunListOptions filters run listings. Zero values disable a filter.
type RunListOptions struct {
	Ticker string
	Status models.RunStatus
	Limit  int
}

// RunStorage - interface for analysis run persistence
type RunStorage interface {
	SaveRun(ctx context.Context, run *models.AnalysisRun) error
	GetRun(ctx context.Context, id string) (*models.AnalysisRun, error)
	ListRuns(ctx context.Context, opts *RunListOptions) ([]*models.AnalysisRun, error) // newest first
	DeleteRun(ctx context.Context, id string) error
	CountRuns(ctx context.Context) (int, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	RunStorage() RunStorage
	Close() error
}
