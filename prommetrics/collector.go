// Package prommetrics exports segsample metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, _ := prommetrics.New(reg, "myapp")
//	c, _ := segsample.New(segsample.MetricL2, segments, segsample.WithMetricsCollector(mc))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/segsample"
)

const subsystem = "segsample"

// Collector implements segsample.MetricsCollector with Prometheus metrics.
type Collector struct {
	searchLatency  *prometheus.HistogramVec
	segmentLatency *prometheus.HistogramVec
	segmentLimit   prometheus.Histogram
	segments       *prometheus.CounterVec
	reruns         prometheus.Counter
	rerunExtra     prometheus.Counter
}

var _ segsample.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_latency_seconds",
			Help:      "Latency of collection searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		segmentLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "segment_search_latency_seconds",
			Help:      "Latency of per-segment searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode", "status"}),
		segmentLimit: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "segment_search_limit",
			Help:      "Candidates requested per segment search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "segments_searched_total",
			Help:      "Segments queried by successful searches",
		}, []string{"mode"}),
		reruns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "segment_reruns_total",
			Help:      "Sampled segments searched again with the full limit",
		}),
		rerunExtra: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "segment_rerun_extra_candidates_total",
			Help:      "Candidates requested by reruns beyond the original sample",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.searchLatency,
		c.segmentLatency,
		c.segmentLimit,
		c.segments,
		c.reruns,
		c.rerunExtra,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is New that panics on registration errors.
func MustNew(reg prometheus.Registerer, namespace string) *Collector {
	c, err := New(reg, namespace)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func mode(sampled bool) string {
	if sampled {
		return "sampled"
	}
	return "full"
}

// RecordSearch implements segsample.MetricsCollector.
func (c *Collector) RecordSearch(_ int, duration time.Duration, err error) {
	c.searchLatency.WithLabelValues(status(err)).Observe(duration.Seconds())
}

// RecordSegmentSearch implements segsample.MetricsCollector.
func (c *Collector) RecordSegmentSearch(limit int, sampled bool, duration time.Duration, err error) {
	c.segmentLatency.WithLabelValues(mode(sampled), status(err)).Observe(duration.Seconds())
	c.segmentLimit.Observe(float64(limit))
}

// RecordSampling implements segsample.MetricsCollector.
func (c *Collector) RecordSampling(searched, sampled int) {
	c.segments.WithLabelValues("sampled").Add(float64(sampled))
	c.segments.WithLabelValues("full").Add(float64(searched - sampled))
}

// RecordRerun implements segsample.MetricsCollector.
func (c *Collector) RecordRerun(sampledLimit, fullLimit int) {
	c.reruns.Inc()
	c.rerunExtra.Add(float64(fullLimit - sampledLimit))
}
