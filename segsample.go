package segsample

import (
	"context"
	"fmt"

	"github.com/hupe1980/segsample/distance"
	"github.com/hupe1980/segsample/internal/engine"
	"github.com/hupe1980/segsample/internal/resource"
	"github.com/hupe1980/segsample/internal/sampling"
	"github.com/hupe1980/segsample/internal/segment"
	"github.com/hupe1980/segsample/internal/segment/flat"
	"github.com/hupe1980/segsample/model"
)

type (
	// SegmentID identifies a segment within a collection.
	SegmentID = model.SegmentID
	// RowID identifies a point within a segment.
	RowID = model.RowID
	// Location addresses a point by segment and row.
	Location = model.Location
	// Candidate is a scored search result.
	Candidate = model.Candidate

	// Segment is a searchable partition of a collection.
	// Implementations must be safe for concurrent use.
	Segment = segment.Segment

	// SearchStats describes how a query was spread across segments.
	SearchStats = engine.SearchStats

	// Metric selects the distance function.
	Metric = distance.Metric

	// FlatSegment is an exact in-memory segment.
	FlatSegment = flat.Segment
)

// Supported metrics. L2 ranks ascending, Cosine and Dot descending.
const (
	MetricL2     = distance.MetricL2
	MetricCosine = distance.MetricCosine
	MetricDot    = distance.MetricDot
)

// NewFlatSegment creates an empty exact segment.
//
// A positive efLimit marks the segment as indexed, which allows the collection
// to sample it. 0 keeps it a plain segment that is always searched with the
// full k.
func NewFlatSegment(id SegmentID, dim int, metric Metric, efLimit int) (*FlatSegment, error) {
	s, err := flat.New(id, dim, metric, flat.WithEfLimit(efLimit))
	if err != nil {
		return nil, translateError(err)
	}
	return s, nil
}

// FindSearchSamplingOverPointDistribution returns how many candidates a
// segment holding a fraction p of the points should return so that, with
// high probability, it contributes every one of its points to the global top
// n. It panics if p*n is NaN and returns math.MaxInt when no sample short of
// the whole segment is safe.
func FindSearchSamplingOverPointDistribution(n, p float64) int {
	return sampling.FindSearchSamplingOverPointDistribution(n, p)
}

// SamplingLimit returns the number of candidates a query for limit results
// requests from a segment of segmentPoints out of totalPoints.
// efLimit <= 0 denotes a plain segment, which is never sampled.
func SamplingLimit(limit, efLimit, segmentPoints, totalPoints int) int {
	return engine.SamplingLimit(limit, efLimit, segmentPoints, totalPoints)
}

// Collection searches a set of segments as one, sampling each segment in
// proportion to its share of the points.
type Collection struct {
	engine *engine.Engine
	opts   options
}

// New creates a collection over segments. All segments must use metric.
func New(metric Metric, segments []Segment, optFns ...Option) (*Collection, error) {
	opts := applyOptions(optFns)

	var rc *resource.Controller
	if opts.maxConcurrentSearches > 0 || opts.scanLimitPerSec > 0 {
		rc = resource.NewController(resource.Config{
			MaxConcurrentSearches: opts.maxConcurrentSearches,
			ScanLimitPerSec:       opts.scanLimitPerSec,
		})
	}

	eng, err := engine.New(metric, segments,
		engine.WithConfig(engine.Config{
			Sampling:       opts.sampling,
			Rerun:          opts.rerun,
			DefaultEfLimit: opts.efLimit,
			MaxConcurrency: opts.maxConcurrency,
		}),
		engine.WithLogger(opts.logger.Logger),
		engine.WithMetricsObserver(&observer{mc: opts.metricsCollector, logger: opts.logger}),
		engine.WithResourceController(rc),
	)
	if err != nil {
		return nil, translateError(err)
	}

	opts.logger.Info("collection opened",
		"metric", metric.String(),
		"segments", len(segments),
		"sampling", opts.sampling,
		"rerun", opts.rerun,
	)

	return &Collection{engine: eng, opts: opts}, nil
}

// Search returns the k best candidates across all segments, best first.
// Ties are broken by location.
func (c *Collection) Search(ctx context.Context, query []float32, k int) ([]Candidate, error) {
	res, _, err := c.SearchWithStats(ctx, query, k)
	return res, err
}

// SearchWithStats is Search that also reports the sampling decisions taken.
func (c *Collection) SearchWithStats(ctx context.Context, query []float32, k int) ([]Candidate, SearchStats, error) {
	if k <= 0 {
		err := fmt.Errorf("%w: got %d", ErrInvalidK, k)
		c.opts.metricsCollector.RecordSearch(k, 0, err)
		c.opts.logger.LogSearch(ctx, k, 0, err)
		return nil, SearchStats{}, err
	}

	res, stats, err := c.engine.SearchWithStats(ctx, query, k)
	if err != nil {
		err = translateError(err)
		c.opts.logger.LogSearch(ctx, k, 0, err)
		return nil, stats, err
	}

	c.opts.metricsCollector.RecordSampling(stats.Searched, stats.Sampled)
	c.opts.logger.LogSampling(ctx, k, stats)
	c.opts.logger.LogSearch(ctx, k, len(res), nil)

	return res, stats, nil
}

// AddSegment registers a segment. Its ID must be unique within the collection.
func (c *Collection) AddSegment(seg Segment) error {
	var id SegmentID
	if seg != nil {
		id = seg.ID()
	}
	err := translateError(c.engine.AddSegment(seg))
	c.opts.logger.LogSegmentChange(context.Background(), "added", id, err)
	return err
}

// RemoveSegment unregisters the segment with the given ID.
func (c *Collection) RemoveSegment(id SegmentID) error {
	err := translateError(c.engine.RemoveSegment(id))
	c.opts.logger.LogSegmentChange(context.Background(), "removed", id, err)
	return err
}

// Segments returns the registered segments ordered by ID.
func (c *Collection) Segments() []Segment {
	return c.engine.Segments()
}

// Len returns the number of live points across all segments.
func (c *Collection) Len() int {
	var n int
	for _, s := range c.engine.Segments() {
		n += s.Len()
	}
	return n
}

// Metric returns the collection's distance metric.
func (c *Collection) Metric() Metric {
	return c.engine.Metric()
}

// Close releases the collection. Segments are owned by the caller and stay
// usable. Calling Close twice returns ErrClosed.
func (c *Collection) Close() error {
	if err := c.engine.Close(); err != nil {
		return translateError(err)
	}
	c.opts.logger.Debug("collection closed", "segments", len(c.engine.Segments()))
	return nil
}
