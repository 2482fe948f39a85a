// Package sampling resolves how many candidates a single segment has to
// examine so that the union of all per-segment results still contains the
// global top-N with high probability.
//
// The number of relevant points landing in one segment is modelled as a
// Poisson process with mean lambda = p * n, where n is the global result size
// and p the probability that a point lives in the segment. The quantiles of
// that distribution are precomputed into a small sorted table; a lookup is a
// binary search for the first entry whose lambda is not smaller than the
// requested one, so the answer always rounds up.
//
// # Usage
//
//	size := sampling.FindSearchSamplingOverPointDistribution(100, 0.1)
//	if sampling.Unbounded(size) {
//	    // sample the whole segment
//	}
//
// The table is immutable package state and every function here is safe for
// concurrent use without synchronization.
package sampling
