package segsample

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/segsample/internal/engine"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the prommetrics package for a ready-made one.
type MetricsCollector interface {
	// RecordSearch is called after each search operation.
	// k is the number of neighbors requested, duration is the time taken,
	// err is nil if successful.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordSegmentSearch is called after each per-segment search, reruns
	// included. sampled is true when limit was below k.
	RecordSegmentSearch(limit int, sampled bool, duration time.Duration, err error)

	// RecordSampling is called after each successful search with the number
	// of segments queried and how many of them were sampled.
	RecordSampling(searched, sampled int)

	// RecordRerun is called when a sampled segment is searched again with
	// the full limit.
	RecordRerun(sampledLimit, fullLimit int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordSegmentSearch(int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordSampling(int, int)                             {}
func (NoopMetricsCollector) RecordRerun(int, int)                                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchTotalNanos  atomic.Int64
	SegmentSearches   atomic.Int64
	SegmentErrors     atomic.Int64
	SegmentTotalNanos atomic.Int64
	SegmentsSearched  atomic.Int64
	SegmentsSampled   atomic.Int64
	Reruns            atomic.Int64
	RerunExtra        atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordSegmentSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegmentSearch(limit int, sampled bool, duration time.Duration, err error) {
	b.SegmentSearches.Add(1)
	b.SegmentTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SegmentErrors.Add(1)
	}
}

// RecordSampling implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSampling(searched, sampled int) {
	b.SegmentsSearched.Add(int64(searched))
	b.SegmentsSampled.Add(int64(sampled))
}

// RecordRerun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRerun(sampledLimit, fullLimit int) {
	b.Reruns.Add(1)
	b.RerunExtra.Add(int64(fullLimit - sampledLimit))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:      b.SearchCount.Load(),
		SearchErrors:     b.SearchErrors.Load(),
		SearchAvgNanos:   avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		SegmentSearches:  b.SegmentSearches.Load(),
		SegmentErrors:    b.SegmentErrors.Load(),
		SegmentAvgNanos:  avg(b.SegmentTotalNanos.Load(), b.SegmentSearches.Load()),
		SegmentsSearched: b.SegmentsSearched.Load(),
		SegmentsSampled:  b.SegmentsSampled.Load(),
		Reruns:           b.Reruns.Load(),
		RerunExtra:       b.RerunExtra.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount      int64
	SearchErrors     int64
	SearchAvgNanos   int64
	SegmentSearches  int64
	SegmentErrors    int64
	SegmentAvgNanos  int64
	SegmentsSearched int64
	SegmentsSampled  int64
	Reruns           int64
	RerunExtra       int64
}

// SampledRatio returns the share of queried segments that were sampled.
func (s BasicMetricsStats) SampledRatio() float64 {
	if s.SegmentsSearched == 0 {
		return 0
	}
	return float64(s.SegmentsSampled) / float64(s.SegmentsSearched)
}

// observer adapts a MetricsCollector and Logger to the engine's observer.
type observer struct {
	mc     MetricsCollector
	logger *Logger
}

var _ engine.MetricsObserver = (*observer)(nil)

func (o *observer) OnSearch(duration time.Duration, k int, _ int, err error) {
	o.mc.RecordSearch(k, duration, err)
}

func (o *observer) OnSegmentSearch(_ SegmentID, limit int, sampled bool, duration time.Duration, err error) {
	o.mc.RecordSegmentSearch(limit, sampled, duration, err)
}

func (o *observer) OnRerun(id SegmentID, sampledLimit, fullLimit int) {
	o.mc.RecordRerun(sampledLimit, fullLimit)
	o.logger.LogRerun(context.Background(), id, sampledLimit, fullLimit)
}
