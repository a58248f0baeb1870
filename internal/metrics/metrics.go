// Package metrics defines the Prometheus series recorded by evaluations.
// Every method is safe to call on a nil *Metrics so instrumentation can be
// switched off without guarding call sites.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "verity"

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	gatherer prometheus.Gatherer

	// Run metrics
	RunsTotal    *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	RunErrors    prometheus.Counter
	DataWarnings prometheus.Histogram

	// Advisor metrics
	ClaimsTotal         *prometheus.CounterVec
	ClaimsVerifiedTotal *prometheus.CounterVec
	FallbacksTotal      *prometheus.CounterVec

	// Policy metrics
	PolicyConfidence prometheus.Histogram
	AbstainReasons   *prometheus.CounterVec
}

// durationBuckets suit an in-process pipeline measured in seconds
var durationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// unitBuckets cover scores in [0, 1]
var unitBuckets = []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1}

// warningBuckets cover the warning count, where 5 triggers abstention
var warningBuckets = []float64{0, 1, 2, 3, 4, 5, 7, 10}

// New creates and registers all metrics with reg. A nil reg uses a fresh
// registry rather than the global default.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "runs_total",
				Help:      "Total evaluations by final recommendation",
			},
			[]string{"recommendation"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "duration_seconds",
				Help:      "Duration of an evaluation in seconds",
				Buckets:   durationBuckets,
			},
			[]string{"status"},
		),
		RunErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "errors_total",
				Help:      "Total evaluations that failed",
			},
		),
		DataWarnings: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "quality",
				Name:      "data_warnings",
				Help:      "Data warnings raised per evaluation",
				Buckets:   warningBuckets,
			},
		),
		ClaimsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "verifier",
				Name:      "claims_total",
				Help:      "Total claims checked per advisor",
			},
			[]string{"advisor"},
		),
		ClaimsVerifiedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "verifier",
				Name:      "claims_verified_total",
				Help:      "Total claims verified per advisor",
			},
			[]string{"advisor"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "structured",
				Name:      "fallbacks_total",
				Help:      "Advisor outputs replaced by the fallback analysis",
			},
			[]string{"advisor", "reason"},
		),
		PolicyConfidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "policy",
				Name:      "confidence",
				Help:      "Distribution of policy decision confidence",
				Buckets:   unitBuckets,
			},
		),
		AbstainReasons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "policy",
				Name:      "abstain_reasons_total",
				Help:      "Abstain triggers by reason",
			},
			[]string{"reason"},
		),
	}
}

// Gatherer exposes the registry the metrics were registered with
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.gatherer
}

// RecordRun records a completed evaluation
func (m *Metrics) RecordRun(recommendation string, duration time.Duration, warnings int, confidence float64) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(recommendation).Inc()
	m.RunDuration.WithLabelValues("success").Observe(duration.Seconds())
	m.DataWarnings.Observe(float64(warnings))
	m.PolicyConfidence.Observe(confidence)
}

// RecordRunError records a failed evaluation
func (m *Metrics) RecordRunError(duration time.Duration) {
	if m == nil {
		return
	}
	m.RunErrors.Inc()
	m.RunDuration.WithLabelValues("error").Observe(duration.Seconds())
}

// RecordVerification records one advisor's claim counts
func (m *Metrics) RecordVerification(advisor string, claims, verified int) {
	if m == nil {
		return
	}
	m.ClaimsTotal.WithLabelValues(advisor).Add(float64(claims))
	m.ClaimsVerifiedTotal.WithLabelValues(advisor).Add(float64(verified))
}

// RecordFallback records an advisor output that could not be used.
// reason is "parse" or "insufficient_data".
func (m *Metrics) RecordFallback(advisor, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(advisor, reason).Inc()
}

// RecordAbstain records each abstain reason of a decision
func (m *Metrics) RecordAbstain(reasons []string) {
	if m == nil {
		return
	}
	for _, r := range reasons {
		m.AbstainReasons.WithLabelValues(r).Inc()
	}
}

// WriteTextfile writes every series to path in the node exporter textfile
// format. The CLI exits after each command, so metrics are flushed rather
// than scraped.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.gatherer)
}
