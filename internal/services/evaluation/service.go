// Package evaluation runs one full verification pass over a data bundle and
// the advisor outputs produced for it.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/verity/internal/advisors"
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/metrics"
	"github.com/ternarybob/verity/internal/models"
	"github.com/ternarybob/verity/internal/services/policy"
	"github.com/ternarybob/verity/internal/services/quality"
	"github.com/ternarybob/verity/internal/services/structured"
	"github.com/ternarybob/verity/internal/services/verifier"
	"github.com/ternarybob/verity/internal/signals"
	"github.com/ternarybob/verity/internal/tracing"
)

// ErrTickerRequired is returned when neither the request nor its bundle
// names a ticker
var ErrTickerRequired = errors.New("ticker is required")

// NoClaimsCaveat is appended to a parsed analysis that kept no claims
const NoClaimsCaveat = "No verifiable claims were produced; treat confidence as low."

// Fallback reasons recorded in metrics
const (
	fallbackParse            = "parse"
	fallbackInsufficientData = "insufficient_data"
)

// Service implements interfaces.EvaluationService
type Service struct {
	registry *advisors.Registry
	engine   *policy.Engine
	parser   *structured.Parser
	metrics  *metrics.Metrics
	logger   arbor.ILogger
	now      func() time.Time
}

// NewService creates an evaluation service. The policy weight table follows
// the registry order and base weights. A nil registry uses the built-in
// personas; a nil metrics disables instrumentation.
func NewService(registry *advisors.Registry, m *metrics.Metrics, logger arbor.ILogger) (*Service, error) {
	if registry == nil {
		registry = advisors.DefaultRegistry()
	}
	if logger == nil {
		logger = common.GetLogger()
	}

	personas := registry.Personas()
	weights := make([]policy.AdvisorWeight, 0, len(personas))
	for _, p := range personas {
		weights = append(weights, policy.AdvisorWeight{Key: p.Key, Weight: p.BaseWeight})
	}
	engine, err := policy.NewEngine(weights...)
	if err != nil {
		return nil, fmt.Errorf("failed to build policy engine: %w", err)
	}

	return &Service{
		registry: registry,
		engine:   engine,
		parser:   structured.NewParser(),
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Evaluate runs quality checks, signal extraction, per-advisor parsing and
// verification, and the policy engine over req
func (s *Service) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.RunResult, error) {
	start := time.Now()

	result, err := s.evaluate(ctx, req)
	if err != nil {
		s.metrics.RecordRunError(time.Since(start))
		return nil, err
	}

	s.metrics.RecordRun(string(result.Decision.FinalRecommendation), time.Since(start),
		result.Decision.WarningCount, result.Decision.Confidence)
	s.metrics.RecordAbstain(result.Decision.AbstainReasons)
	return result, nil
}

func (s *Service) evaluate(ctx context.Context, req models.EvaluationRequest) (*models.RunResult, error) {
	ticker := req.Ticker
	if ticker == "" {
		ticker = req.Bundle.Ticker
	}
	ticker = common.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrTickerRequired
	}

	now := req.Now
	if now.IsZero() {
		now = s.now()
	}

	bundle := req.Bundle
	bundle.Ticker = ticker

	coverage := quality.SummarizeCoverage(bundle)
	warnings := quality.CollectWarnings(bundle, now)
	featureSignals := signals.ComputeFeatureSignalsAt(bundle, now)

	s.logger.Debug().
		Str("ticker", ticker).
		Int("warnings", len(warnings)).
		Int("prices", coverage.Prices.Count).
		Msg("Data quality assessed")

	s.warnUnknownOutputs(ticker, req.Outputs)

	personas := s.registry.Personas()
	analyses := make([]models.StructuredAnalysis, len(personas))
	reports := make([]models.VerificationReport, len(personas))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range personas {
		i, p := i, p
		g.Go(func() (err error) {
			defer common.RecoverToError(s.logger, "advisor:"+p.Key, &err)
			if err := gctx.Err(); err != nil {
				return err
			}
			analyses[i], reports[i] = s.evaluateAdvisor(gctx, p, ticker, bundle, warnings, req.Outputs[p.Key], featureSignals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate advisors for %s: %w", ticker, err)
	}

	analysisByKey := make(map[string]models.StructuredAnalysis, len(personas))
	verification := make(map[string]models.VerificationReport, len(personas))
	for i, p := range personas {
		analysisByKey[p.Key] = analyses[i]
		verification[p.Key] = reports[i]
	}

	decision := s.engine.Compute(analysisByKey, verification, coverage, warnings)

	s.logger.Info().
		Str("ticker", ticker).
		Str("recommendation", string(decision.FinalRecommendation)).
		Float64("confidence", decision.Confidence).
		Int("abstain_reasons", len(decision.AbstainReasons)).
		Msg("Policy decision computed")

	return &models.RunResult{
		Ticker:       ticker,
		EvaluatedAt:  now,
		Coverage:     coverage,
		Warnings:     warnings,
		Signals:      featureSignals,
		Analyses:     analysisByKey,
		Verification: verification,
		Decision:     decision,
		BiasAudit: models.BiasAuditInput{
			Ticker:       ticker,
			Snapshot:     quality.BuildSnapshot(bundle),
			Warnings:     warnings,
			AgentOutputs: analysisByKey,
		},
	}, nil
}

// evaluateAdvisor turns one persona's raw output into a verified analysis.
// A missing output is treated as empty text.
func (s *Service) evaluateAdvisor(
	ctx context.Context,
	p advisors.Persona,
	ticker string,
	bundle models.DataBundle,
	warnings []string,
	raw string,
	featureSignals models.SignalSet,
) (models.StructuredAnalysis, models.VerificationReport) {
	_, span := tracing.StartSpan(ctx, "evaluation.advisor",
		trace.WithAttributes(
			attribute.String("ticker", ticker),
			attribute.String("advisor", p.Key),
		))
	defer span.End()

	var analysis models.StructuredAnalysis
	if message, insufficient := p.InsufficientData(bundle, warnings); insufficient {
		analysis = structured.Fallback(p.Key, ticker, message)
		s.metrics.RecordFallback(p.Key, fallbackInsufficientData)
		s.logger.Debug().Str("ticker", ticker).Str("advisor", p.Key).Msg("Advisor lacks required data")
	} else {
		parsed, err := s.parser.Parse(raw, structured.Options{
			Agent:               p.Key,
			Ticker:              ticker,
			AllowedEvidenceKeys: p.AllowedEvidenceKeys,
			MinClaims:           p.MinClaims,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "structured output rejected")
			s.metrics.RecordFallback(p.Key, fallbackParse)
			s.logger.Warn().Err(err).Str("ticker", ticker).Str("advisor", p.Key).Msg("Advisor output replaced by fallback")
		} else if len(parsed.Claims) == 0 {
			parsed.Caveats = append(parsed.Caveats, NoClaimsCaveat)
		}
		analysis = parsed
	}

	report := verifier.VerifyAnalysisClaims(analysis, featureSignals)
	s.metrics.RecordVerification(p.Key, report.ClaimCount, report.VerifiedClaimCount)

	span.SetAttributes(
		attribute.String("recommendation", string(analysis.Recommendation)),
		attribute.Int("claims", report.ClaimCount),
		attribute.Float64("verification_rate", report.VerificationRate),
	)
	return analysis, report
}

func (s *Service) warnUnknownOutputs(ticker string, outputs map[string]string) {
	unknown := make([]string, 0)
	for key := range outputs {
		if _, ok := s.registry.Get(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return
	}
	sort.Strings(unknown)
	s.logger.Warn().
		Str("ticker", ticker).
		Strs("advisors", unknown).
		Msg("Ignoring outputs for unregistered advisors")
}

var _ interfaces.EvaluationService = (*Service)(nil)
