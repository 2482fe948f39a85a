package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/segsample/distance"
	"github.com/hupe1980/segsample/internal/resource"
	"github.com/hupe1980/segsample/internal/segment"
	"github.com/hupe1980/segsample/model"
)

// Engine searches a mutable set of segments sharing one metric.
type Engine struct {
	mu       sync.RWMutex
	segments []segment.Segment

	metric distance.Metric
	cfg    Config

	metrics            MetricsObserver
	resourceController *resource.Controller
	logger             *slog.Logger

	closed atomic.Bool
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetricsObserver sets the metrics observer for the engine.
func WithMetricsObserver(observer MetricsObserver) Option {
	return func(e *Engine) {
		if observer != nil {
			e.metrics = observer
		}
	}
}

// WithResourceController sets the resource controller for the engine.
func WithResourceController(rc *resource.Controller) Option {
	return func(e *Engine) {
		e.resourceController = rc
	}
}

// WithConfig replaces the whole search configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithSampling enables or disables per-segment sampling.
func WithSampling(enabled bool) Option {
	return func(e *Engine) {
		e.cfg.Sampling = enabled
	}
}

// WithRerun enables or disables reruns of undersampled segments.
func WithRerun(enabled bool) Option {
	return func(e *Engine) {
		e.cfg.Rerun = enabled
	}
}

// WithDefaultEfLimit sets the search breadth assumed for segments that do not
// report one. 0 keeps such segments unsampled.
func WithDefaultEfLimit(ef int) Option {
	return func(e *Engine) {
		e.cfg.DefaultEfLimit = max(ef, 0)
	}
}

// WithMaxConcurrency caps parallel segment searches per query.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		e.cfg.MaxConcurrency = max(n, 0)
	}
}

// New creates an engine over segments. All segments must use metric.
func New(metric distance.Metric, segments []segment.Segment, opts ...Option) (*Engine, error) {
	e := &Engine{
		metric:  metric,
		cfg:     DefaultConfig(),
		metrics: &NoopMetricsObserver{},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	for _, seg := range segments {
		if err := e.AddSegment(seg); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Metric returns the distance metric shared by all segments.
func (e *Engine) Metric() distance.Metric { return e.metric }

// Config returns the search configuration.
func (e *Engine) Config() Config { return e.cfg }

// AddSegment registers a segment. IDs must be unique.
func (e *Engine) AddSegment(seg segment.Segment) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if seg == nil {
		return fmt.Errorf("%w: nil segment", ErrInvalidArgument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := seg.ID()
	if slices.ContainsFunc(e.segments, func(s segment.Segment) bool { return s.ID() == id }) {
		return fmt.Errorf("%w: %d", ErrDuplicateSegment, id)
	}
	e.segments = append(e.segments, seg)
	slices.SortFunc(e.segments, func(a, b segment.Segment) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})

	e.logger.Debug("segment added", "segment", id, "points", seg.Len(), "segments", len(e.segments))
	return nil
}

// RemoveSegment unregisters the segment with the given ID.
func (e *Engine) RemoveSegment(id model.SegmentID) error {
	if e.closed.Load() {
		return ErrClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.IndexFunc(e.segments, func(s segment.Segment) bool { return s.ID() == id })
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrSegmentNotFound, id)
	}
	e.segments = slices.Delete(e.segments, i, i+1)

	e.logger.Debug("segment removed", "segment", id, "segments", len(e.segments))
	return nil
}

// Segments returns a snapshot of the registered segments ordered by ID.
func (e *Engine) Segments() []segment.Segment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.segments)
}

// Plan returns the sampling plan a top-k query would use right now.
func (e *Engine) Plan(k int) Plan {
	return NewPlan(k, e.Segments(), e.cfg)
}

// Close marks the engine closed. Segments are owned by the caller.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	e.logger.Info("engine closed")
	return nil
}
