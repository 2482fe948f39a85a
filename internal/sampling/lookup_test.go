package sampling

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSearchSampling(t *testing.T) {
	tests := []struct {
		name string
		n, p float64
		want int
	}{
		{"ZeroN", 0, 0.5, 4},
		{"ZeroP", 100, 0, 4},
		{"ExactFirst", 0.19342359767891684, 1, 4},
		{"BetweenFirstAndSecond", 0.3, 1, 5},
		{"ExactSecond", 0.398406374501992, 1, 5},
		{"Scenario", 40, 0.025, 8},
		{"ExactTen", 10, 1, 24},
		{"LargestFinite", 4900, 1, 5132},
		{"NegativeLambda", -10, 0.5, 4},
		{"ProbabilityAboveOne", 10, 2, 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindSearchSamplingOverPointDistribution(tt.n, tt.p))
		})
	}
}

func TestFindDuplicateLambdaPicksLeftmost(t *testing.T) {
	e := Find(50)
	assert.Equal(t, 50.0, e.Lambda)
	assert.Equal(t, 77, e.SampleSize)

	// Just above the duplicate pair the next entry is used.
	assert.Equal(t, 86, Find(50.5).SampleSize)
}

func TestFindSentinelSaturation(t *testing.T) {
	for _, lambda := range []float64{4900.0001, 5000, 1e9, math.MaxFloat64, math.Inf(1)} {
		size := Find(lambda).SampleSize
		assert.True(t, Unbounded(size), "lambda %g", lambda)
	}
	assert.Equal(t, math.MaxInt, FindSearchSamplingOverPointDistribution(1e6, 0.5))
}

func TestFindNegativeInfinity(t *testing.T) {
	assert.Equal(t, At(0), Find(math.Inf(-1)))
}

func TestFindExactMatchForEveryEntry(t *testing.T) {
	tbl := Table()
	for i, e := range tbl {
		got := Find(e.Lambda)
		if i > 0 && tbl[i-1].Lambda == e.Lambda {
			// Leftmost duplicate wins.
			assert.Equal(t, tbl[i-1], got)
			continue
		}
		assert.Equal(t, e, got)
	}
}

func TestFindRoundsUpBetweenEntries(t *testing.T) {
	tbl := Table()
	for i := 1; i < len(tbl)-1; i++ {
		lo, hi := tbl[i-1], tbl[i]
		if lo.Lambda == hi.Lambda {
			continue
		}
		mid := lo.Lambda + (hi.Lambda-lo.Lambda)/2
		if mid <= lo.Lambda {
			// Neighbours one ulp apart, e.g. 33.33333333333333 and 33.333333333333336.
			continue
		}
		assert.Equal(t, hi.SampleSize, Find(mid).SampleSize, "between %v and %v", lo, hi)
	}
}

func TestFindMonotonic(t *testing.T) {
	prev := 0
	for lambda := 0.0; lambda <= 6000; lambda += 0.37 {
		size := Find(lambda).SampleSize
		require.GreaterOrEqual(t, size, prev, "lambda %g", lambda)
		prev = size
	}
}

func TestFindResultAlwaysInTable(t *testing.T) {
	sizes := make(map[int]bool, Len())
	for _, e := range Table() {
		sizes[e.SampleSize] = true
	}
	for lambda := -1.0; lambda < 5200; lambda += 1.3 {
		assert.True(t, sizes[Find(lambda).SampleSize], "lambda %g", lambda)
	}
}

func TestFindNaNPanics(t *testing.T) {
	assert.PanicsWithError(t, "sampling: lambda is NaN: cannot order against sampling table", func() {
		FindSearchSamplingOverPointDistribution(math.NaN(), 0.5)
	})
	assert.Panics(t, func() {
		FindSearchSamplingOverPointDistribution(10, math.NaN())
	})
	// 0 * Inf is NaN.
	assert.Panics(t, func() {
		FindSearchSamplingOverPointDistribution(math.Inf(1), 0)
	})
}

func TestFindConcurrentDeterministic(t *testing.T) {
	want := FindSearchSamplingOverPointDistribution(1000, 0.1)

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				results[i] = FindSearchSamplingOverPointDistribution(1000, 0.1)
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func BenchmarkFindSearchSampling(b *testing.B) {
	var sink int
	for i := 0; i < b.N; i++ {
		sink += FindSearchSamplingOverPointDistribution(float64(i%10000), 0.05)
	}
	_ = sink
}
