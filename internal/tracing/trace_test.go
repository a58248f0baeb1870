package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/verity/internal/common"
)

func TestStartSpan_Disabled(t *testing.T) {
	require.NoError(t, InitWithWriter(common.TracingConfig{Enabled: false}, &bytes.Buffer{}))

	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	assert.False(t, Enabled())
	assert.False(t, span.IsRecording())
	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
}

func TestStartSpan_Enabled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(common.TracingConfig{Enabled: true, ServiceName: "verity-test"}, &buf))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "evaluate")
	traceID, spanID, ok := GetTraceFields(ctx)
	span.End()

	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	assert.Contains(t, buf.String(), `"Name":"evaluate"`)
	assert.Contains(t, buf.String(), "verity-test")
}

func TestShutdown_Idempotent(t *testing.T) {
	require.NoError(t, InitWithWriter(common.TracingConfig{Enabled: true}, &bytes.Buffer{}))

	assert.NoError(t, Shutdown(context.Background()))
	assert.NoError(t, Shutdown(context.Background()))
	assert.False(t, Enabled())
}
