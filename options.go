package segsample

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger

	sampling       bool
	rerun          bool
	efLimit        int
	maxConcurrency int

	maxConcurrentSearches int64
	scanLimitPerSec       int64
}

// Option configures a Collection.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &segsample.BasicMetricsCollector{}
//	c, _ := segsample.New(segsample.MetricL2, segments, segsample.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Sampled: %.2f\n", stats.SampledRatio())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := segsample.NewJSONLogger(slog.LevelInfo)
//	c, _ := segsample.New(segsample.MetricL2, segments, segsample.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSampling enables or disables per-segment sampling. Enabled by default.
//
// With sampling off every segment is asked for the full k.
func WithSampling(enabled bool) Option {
	return func(o *options) {
		o.sampling = enabled
	}
}

// WithRerun enables or disables the second pass over undersampled segments.
// Enabled by default.
func WithRerun(enabled bool) Option {
	return func(o *options) {
		o.rerun = enabled
	}
}

// WithEfLimit sets the search breadth assumed for segments that do not report
// their own. Segments without one are searched in full when this is 0 (default).
func WithEfLimit(ef int) Option {
	return func(o *options) {
		o.efLimit = max(ef, 0)
	}
}

// WithMaxConcurrency caps the parallel segment searches of a single query.
// 0 (default) uses GOMAXPROCS.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = max(n, 0)
	}
}

// WithMaxConcurrentSearches caps segment searches in flight across all
// concurrent queries of the collection. 0 (default) is unlimited.
func WithMaxConcurrentSearches(n int64) Option {
	return func(o *options) {
		o.maxConcurrentSearches = max(n, 0)
	}
}

// WithScanRateLimit limits the candidates requested from segments per second
// across the collection. 0 (default) is unlimited.
func WithScanRateLimit(perSec int64) Option {
	return func(o *options) {
		o.scanLimitPerSec = max(perSec, 0)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		sampling:         true,
		rerun:            true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
