package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segsample/model"
)

func TestSamplingLimit(t *testing.T) {
	tests := []struct {
		name                     string
		limit, ef, points, total int
		want                     int
	}{
		{"PlainSegment", 10, 0, 5, 100, 10},
		{"EmptySegment", 10, 64, 0, 100, 0},
		{"ZeroLimit", 0, 64, 5, 100, 0},
		{"PoissonWins", 100, 1, 100, 1000, 24},
		{"EfWins", 100, 50, 100, 1000, 50},
		{"CappedAtLimit", 100, 1, 1000, 1000, 100},
		{"SentinelCollapsesToLimit", 10000, 1, 500, 1000, 10000},
		{"SmallLambda", 40, 1, 25, 1000, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SamplingLimit(tt.limit, tt.ef, tt.points, tt.total))
		})
	}
}

func TestSamplingLimitNeverExceedsLimit(t *testing.T) {
	for _, limit := range []int{1, 7, 100, 999, 5000} {
		for _, points := range []int{1, 10, 333, 1000} {
			got := SamplingLimit(limit, 1, points, 1000)
			assert.LessOrEqual(t, got, limit)
			assert.Positive(t, got)
			assert.NotEqual(t, math.MaxInt, got)
		}
	}
}

func fixedSegments(sizes ...int) []*fakeSegment {
	out := make([]*fakeSegment, len(sizes))
	for i, n := range sizes {
		out[i] = &fakeSegment{id: model.SegmentID(i), n: n, ef: 1, score: linear(0, 1)}
	}
	return out
}

func TestNewPlan(t *testing.T) {
	t.Run("Sampled", func(t *testing.T) {
		plan := NewPlan(100, asSegments(fixedSegments(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)), DefaultConfig())

		assert.True(t, plan.Sampling)
		assert.Equal(t, 1000, plan.TotalPoints)
		assert.Equal(t, 10, plan.SampledCount())
		for _, sp := range plan.Segments {
			assert.Equal(t, 24, sp.Limit)
			assert.InDelta(t, 0.1, sp.Probability, 1e-12)
			assert.True(t, sp.Sampled)
		}
	})

	t.Run("SingleSegment", func(t *testing.T) {
		plan := NewPlan(100, asSegments(fixedSegments(1000)), DefaultConfig())

		assert.False(t, plan.Sampling)
		require.Len(t, plan.Segments, 1)
		assert.Equal(t, 100, plan.Segments[0].Limit)
		assert.False(t, plan.Segments[0].Sampled)
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Sampling = false
		plan := NewPlan(10, asSegments(fixedSegments(50, 0, 50)), cfg)

		assert.False(t, plan.Sampling)
		assert.Equal(t, []int{10, 0, 10}, limitsOf(plan))
		assert.Zero(t, plan.SampledCount())
	})

	t.Run("AllEmpty", func(t *testing.T) {
		plan := NewPlan(10, asSegments(fixedSegments(0, 0)), DefaultConfig())

		assert.False(t, plan.Sampling)
		assert.Equal(t, []int{0, 0}, limitsOf(plan))
	})

	t.Run("PlainSegmentsUseDefaultEf", func(t *testing.T) {
		fakes := fixedSegments(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
		for _, f := range fakes {
			f.ef = 0
		}

		plan := NewPlan(100, asSegments(fakes), DefaultConfig())
		assert.Zero(t, plan.SampledCount())

		cfg := DefaultConfig()
		cfg.DefaultEfLimit = 30
		plan = NewPlan(100, asSegments(fakes), cfg)
		assert.Equal(t, 10, plan.SampledCount())
		assert.Equal(t, 30, plan.Segments[0].Limit)
	})

	t.Run("SegmentEfTakesPrecedence", func(t *testing.T) {
		fakes := fixedSegments(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
		fakes[0].ef = 40

		cfg := DefaultConfig()
		cfg.DefaultEfLimit = 30
		plan := NewPlan(100, asSegments(fakes), cfg)
		assert.Equal(t, 40, plan.Segments[0].Limit)
		assert.Equal(t, 24, plan.Segments[1].Limit)
	})

	t.Run("LargeSegmentNotSampled", func(t *testing.T) {
		plan := NewPlan(100, asSegments(fixedSegments(990, 10)), DefaultConfig())

		assert.Equal(t, 100, plan.Segments[0].Limit)
		assert.False(t, plan.Segments[0].Sampled)
		assert.True(t, plan.Segments[1].Sampled)
		assert.Less(t, plan.Segments[1].Limit, 100)
	})
}

func limitsOf(p Plan) []int {
	out := make([]int, len(p.Segments))
	for i, sp := range p.Segments {
		out[i] = sp.Limit
	}
	return out
}
