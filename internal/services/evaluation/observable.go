package evaluation

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/models"
	"github.com/ternarybob/verity/internal/tracing"
)

// observableService wraps an EvaluationService with logging and tracing
type observableService struct {
	inner  interfaces.EvaluationService
	logger arbor.ILogger
}

// Wrap wraps an EvaluationService with observability middleware
func Wrap(inner interfaces.EvaluationService, logger arbor.ILogger) interfaces.EvaluationService {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &observableService{inner: inner, logger: logger}
}

// Evaluate wraps the Evaluate method with logging and tracing
func (o *observableService) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.RunResult, error) {
	ticker := common.NormalizeTicker(req.Ticker)
	if ticker == "" {
		ticker = common.NormalizeTicker(req.Bundle.Ticker)
	}

	ctx, span := tracing.StartSpan(ctx, "evaluation.Evaluate",
		trace.WithAttributes(
			attribute.String("ticker", ticker),
			attribute.Int("outputs", len(req.Outputs)),
		))
	defer span.End()

	event := o.logger.Debug().Str("ticker", ticker).Int("outputs", len(req.Outputs))
	if traceID, spanID, ok := tracing.GetTraceFields(ctx); ok {
		event = event.Str("trace_id", traceID).Str("span_id", spanID)
	}
	event.Msg("Starting evaluation")
	start := time.Now()

	result, err := o.inner.Evaluate(ctx, req)

	duration := time.Since(start)

	if err != nil {
		o.logger.Error().
			Err(err).
			Str("ticker", ticker).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("Evaluation failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("recommendation", string(result.Decision.FinalRecommendation)),
		attribute.Float64("confidence", result.Decision.Confidence),
		attribute.Int("warnings", result.Decision.WarningCount),
	)

	o.logger.Info().
		Str("ticker", result.Ticker).
		Str("recommendation", string(result.Decision.FinalRecommendation)).
		Float64("confidence", result.Decision.Confidence).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("Evaluation completed")

	return result, nil
}
