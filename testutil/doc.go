// Package testutil provides testing utilities for segsample.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors, computing exact
// nearest neighbors across segments, and verifying search recall.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 16)
//
// # Exact Search (Ground Truth)
//
//	truth := testutil.BruteForceSearch(segments, query, k)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(truth, approximate)
package testutil
