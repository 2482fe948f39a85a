package segsample

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	b := &BasicMetricsCollector{}

	b.RecordSearch(10, 2*time.Millisecond, nil)
	b.RecordSearch(10, 4*time.Millisecond, errors.New("boom"))
	b.RecordSegmentSearch(24, true, time.Millisecond, nil)
	b.RecordSegmentSearch(100, false, 3*time.Millisecond, errors.New("boom"))
	b.RecordSampling(10, 4)
	b.RecordRerun(24, 100)

	stats := b.GetStats()
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(1), stats.SearchErrors)
	assert.Equal(t, int64(3*time.Millisecond), stats.SearchAvgNanos)
	assert.Equal(t, int64(2), stats.SegmentSearches)
	assert.Equal(t, int64(1), stats.SegmentErrors)
	assert.Equal(t, int64(2*time.Millisecond), stats.SegmentAvgNanos)
	assert.Equal(t, int64(10), stats.SegmentsSearched)
	assert.Equal(t, int64(4), stats.SegmentsSampled)
	assert.Equal(t, int64(1), stats.Reruns)
	assert.Equal(t, int64(76), stats.RerunExtra)
	assert.InDelta(t, 0.4, stats.SampledRatio(), 1e-12)
}

func TestBasicMetricsCollectorEmpty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.SearchAvgNanos)
	assert.Zero(t, stats.SegmentAvgNanos)
	assert.Zero(t, stats.SampledRatio())
}

func TestBasicMetricsCollectorConcurrent(t *testing.T) {
	b := &BasicMetricsCollector{}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				b.RecordSearch(10, time.Microsecond, nil)
				b.RecordSampling(3, 1)
			}
		}()
	}
	wg.Wait()

	stats := b.GetStats()
	assert.Equal(t, int64(8000), stats.SearchCount)
	assert.Equal(t, int64(24000), stats.SegmentsSearched)
}

func TestObserverForwardsToCollector(t *testing.T) {
	b := &BasicMetricsCollector{}
	o := &observer{mc: b, logger: NoopLogger()}

	o.OnSearch(time.Millisecond, 10, 10, nil)
	o.OnSegmentSearch(1, 5, true, time.Millisecond, nil)
	o.OnRerun(1, 5, 10)

	stats := b.GetStats()
	assert.Equal(t, int64(1), stats.SearchCount)
	assert.Equal(t, int64(1), stats.SegmentSearches)
	assert.Equal(t, int64(1), stats.Reruns)
	assert.Equal(t, int64(5), stats.RerunExtra)
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	mc.RecordSearch(1, time.Second, nil)
	mc.RecordSegmentSearch(1, false, time.Second, nil)
	mc.RecordSampling(1, 1)
	mc.RecordRerun(1, 2)
}
