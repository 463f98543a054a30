package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/statuskit/lspstatus/internal/progress"
)

// LogSink appends every raw event to the structured log. It backs the
// debug_log option and has no effect on aggregation state.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.String("worker", evt.Worker),
			zap.String("token", evt.Token),
			zap.String("kind", string(evt.Kind)),
			zap.Time("ts", evt.TS),
		}
		if evt.Percentage != nil {
			fields = append(fields, zap.Int("percentage", *evt.Percentage))
		}
		s.logger.Info("progress event", fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
