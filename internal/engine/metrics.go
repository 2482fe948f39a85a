package engine

import (
	"time"

	"github.com/hupe1980/segsample/model"
)

// MetricsObserver receives search events.
type MetricsObserver interface {
	// OnSearch is called when a query completes.
	OnSearch(duration time.Duration, k int, results int, err error)

	// OnSegmentSearch is called after each segment search, reruns included.
	OnSegmentSearch(id model.SegmentID, limit int, sampled bool, duration time.Duration, err error)

	// OnRerun is called when a sampled segment is searched again with the full limit.
	OnRerun(id model.SegmentID, sampledLimit, fullLimit int)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (o *NoopMetricsObserver) OnSearch(time.Duration, int, int, error) {}
func (o *NoopMetricsObserver) OnSegmentSearch(model.SegmentID, int, bool, time.Duration, error) {}
func (o *NoopMetricsObserver) OnRerun(model.SegmentID, int, int) {}
