package sinks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/statuskit/lspstatus/internal/progress"
)

func TestLogSinkWritesOneEntryPerEvent(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	batch := []progress.Event{
		sinkEvent("w1", "index", progress.KindBegin, progress.Pct(15)),
		sinkEvent("w1", "index", progress.KindEnd, nil),
	}
	require.NoError(t, sink.Consume(context.Background(), batch))
	require.Equal(t, 2, logs.Len())

	first := logs.All()[0]
	assert.Equal(t, "progress event", first.Message)
	ctx := first.ContextMap()
	assert.Equal(t, "w1", ctx["worker"])
	assert.Equal(t, "index", ctx["token"])
	assert.Equal(t, "begin", ctx["kind"])
	assert.EqualValues(t, 15, ctx["percentage"])

	second := logs.All()[1].ContextMap()
	assert.NotContains(t, second, "percentage")
}

func TestLogSinkNilLoggerDefaultsToNop(t *testing.T) {
	t.Parallel()

	sink := NewLogSink(nil)
	assert.NoError(t, sink.Consume(context.Background(), []progress.Event{
		sinkEvent("w1", "index", progress.KindBegin, nil),
	}))
	assert.NoError(t, sink.Close(context.Background()))
}
