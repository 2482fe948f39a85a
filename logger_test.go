package segsample

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggerHelpers(t *testing.T) {
	ctx := context.Background()

	t.Run("LogSearch", func(t *testing.T) {
		var buf bytes.Buffer
		l := newBufferLogger(&buf)

		l.LogSearch(ctx, 10, 7, nil)
		assert.Contains(t, buf.String(), `"results":7`)

		buf.Reset()
		l.LogSearch(ctx, 10, 0, errors.New("boom"))
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"error":"boom"`)
	})

	t.Run("LogSampling", func(t *testing.T) {
		var buf bytes.Buffer
		newBufferLogger(&buf).LogSampling(ctx, 100, SearchStats{Segments: 4, Searched: 3, Sampled: 2, Reruns: 1, TotalPoints: 900})

		out := buf.String()
		assert.Contains(t, out, `"sampled":2`)
		assert.Contains(t, out, `"reruns":1`)
		assert.Contains(t, out, `"points":900`)
	})

	t.Run("LogRerun", func(t *testing.T) {
		var buf bytes.Buffer
		newBufferLogger(&buf).LogRerun(ctx, 3, 24, 100)

		out := buf.String()
		assert.Contains(t, out, `"segment":3`)
		assert.Contains(t, out, `"sampled_limit":24`)
		assert.Contains(t, out, `"limit":100`)
	})

	t.Run("LogSegmentChange", func(t *testing.T) {
		var buf bytes.Buffer
		l := newBufferLogger(&buf)
		l.LogSegmentChange(ctx, "added", 5, nil)
		l.LogSegmentChange(ctx, "removed", 5, ErrSegmentNotFound)

		out := buf.String()
		assert.Contains(t, out, `"msg":"segment added"`)
		assert.Contains(t, out, `"msg":"segment removed failed"`)
	})

	t.Run("With", func(t *testing.T) {
		var buf bytes.Buffer
		newBufferLogger(&buf).WithSegment(2).WithK(10).WithMetric(MetricCosine).Info("x")

		out := buf.String()
		assert.Contains(t, out, `"segment":2`)
		assert.Contains(t, out, `"k":10`)
		assert.Contains(t, out, `"metric":"Cosine"`)
	})
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogSearch(context.Background(), 1, 1, nil)
}

func TestNewLoggerDefaultHandler(t *testing.T) {
	l := NewLogger(nil)
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))

	assert.True(t, NewJSONLogger(slog.LevelDebug).Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewTextLogger(slog.LevelError).Enabled(context.Background(), slog.LevelWarn))
}
