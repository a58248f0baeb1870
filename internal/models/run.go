package models

import "time"

// RunStatus tracks an analysis run through its lifecycle
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// BiasAuditInput is the payload handed to the bias auditor: the data
// snapshot, the warnings and every parsed advisor output.
type BiasAuditInput struct {
	Ticker       string                        `json:"ticker"`
	Snapshot     Snapshot                      `json:"snapshot"`
	Warnings     []string                      `json:"warnings"`
	AgentOutputs map[string]StructuredAnalysis `json:"agent_outputs"`
}

// EvaluationRequest is one bundle plus the raw text each advisor produced
// for it, keyed by advisor. Now fixes the clock for recency checks; the
// zero value means the current time.
type EvaluationRequest struct {
	Ticker  string            `json:"ticker"`
	Bundle  DataBundle        `json:"bundle"`
	Outputs map[string]string `json:"outputs"`
	Now     time.Time         `json:"now"`
}

// RunResult is everything produced by one evaluation
type RunResult struct {
	Ticker       string                        `json:"ticker"`
	EvaluatedAt  time.Time                     `json:"evaluated_at"`
	Coverage     CoverageSummary               `json:"data_coverage"`
	Warnings     []string                      `json:"data_warnings"`
	Signals      SignalSet                     `json:"feature_signals"`
	Analyses     map[string]StructuredAnalysis `json:"analyses"`
	Verification map[string]VerificationReport `json:"verification"`
	Decision     PolicyDecision                `json:"final_policy"`
	BiasAudit    BiasAuditInput                `json:"bias_audit"`
}

// AnalysisRun is the persisted record of an evaluation request
type AnalysisRun struct {
	ID        string     `json:"id"`
	Ticker    string     `json:"ticker" badgerhold:"index"`
	Status    RunStatus  `json:"status" badgerhold:"index"`
	Result    *RunResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
