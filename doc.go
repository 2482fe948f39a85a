// Package segsample searches a vector collection split into segments without
// asking every segment for the full top k.
//
// A segment holding a fraction p of the collection's points is expected to
// contribute about k*p of the global top k. segsample asks it for a safe
// upper bound on that contribution, read from a precomputed Poisson quantile
// table, instead of k. Segments whose sample came back entirely inside the
// merged top k are searched again with the full k.
//
// # Quick Start
//
//	seg, _ := segsample.NewFlatSegment(1, 128, segsample.MetricL2, 64)
//	seg.Add(vector)
//	c, _ := segsample.New(segsample.MetricL2, []segsample.Segment{seg, ...})
//	defer c.Close()
//	results, _ := c.Search(ctx, query, 10)
//
// # Sampling
//
// The table lookup is exposed directly:
//
//	// Candidates a segment with 2.5% of the points returns for a top-40 query.
//	n := segsample.FindSearchSamplingOverPointDistribution(40, 0.025) // 8
//
// Plain segments (efLimit 0) are always searched with the full k. So is every
// segment of a single-segment collection.
//
// # Observability
//
// Logging uses log/slog through Logger; metrics go to a MetricsCollector.
// The prommetrics package provides a Prometheus collector.
package segsample
