package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	require.NotNil(t, m)
	m.RecordRun("buy", 10*time.Millisecond, 2, 0.7)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}

func TestRecordRun(t *testing.T) {
	m := New(nil)

	m.RecordRun("abstain", 5*time.Millisecond, 6, 0.2)
	m.RecordRun("abstain", 5*time.Millisecond, 6, 0.2)
	m.RecordRun("buy", 5*time.Millisecond, 0, 0.9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("abstain")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("buy")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.PolicyConfidence))
}

func TestRecordVerificationAndFallback(t *testing.T) {
	m := New(nil)

	m.RecordVerification("warren", 4, 3)
	m.RecordVerification("warren", 2, 0)
	m.RecordFallback("bill", "parse")
	m.RecordAbstain([]string{"low coverage", "low verification"})
	m.RecordRunError(time.Millisecond)

	assert.Equal(t, 6.0, testutil.ToFloat64(m.ClaimsTotal.WithLabelValues("warren")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ClaimsVerifiedTotal.WithLabelValues("warren")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("bill", "parse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AbstainReasons.WithLabelValues("low coverage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunErrors))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRun("buy", time.Second, 0, 1)
		m.RecordRunError(time.Second)
		m.RecordVerification("warren", 1, 1)
		m.RecordFallback("warren", "parse")
		m.RecordAbstain([]string{"x"})
	})
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
	assert.NotNil(t, m.Gatherer())
}

func TestWriteTextfile(t *testing.T) {
	m := New(nil)
	m.RecordRun("hold", time.Millisecond, 1, 0.5)
	path := filepath.Join(t.TempDir(), "verity.prom")

	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `verity_evaluation_runs_total{recommendation="hold"} 1`))
}
