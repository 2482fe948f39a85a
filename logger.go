package segsample

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with segsample-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSegment adds a segment field to the logger.
func (l *Logger) WithSegment(id SegmentID) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", id),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithMetric adds a metric field to the logger.
func (l *Logger) WithMetric(m Metric) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", m.String()),
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogSampling logs how a query was spread across segments.
func (l *Logger) LogSampling(ctx context.Context, k int, stats SearchStats) {
	l.DebugContext(ctx, "search sampling",
		"k", k,
		"segments", stats.Segments,
		"searched", stats.Searched,
		"sampled", stats.Sampled,
		"reruns", stats.Reruns,
		"points", stats.TotalPoints,
	)
}

// LogRerun logs a sampled segment being searched again with the full limit.
func (l *Logger) LogRerun(ctx context.Context, id SegmentID, sampledLimit, fullLimit int) {
	l.InfoContext(ctx, "undersampled segment rerun",
		"segment", id,
		"sampled_limit", sampledLimit,
		"limit", fullLimit,
	)
}

// LogSegmentChange logs a segment being added or removed.
func (l *Logger) LogSegmentChange(ctx context.Context, op string, id SegmentID, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment "+op+" failed",
			"segment", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "segment "+op,
			"segment", id,
		)
	}
}
