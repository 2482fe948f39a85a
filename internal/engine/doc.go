// Package engine searches a set of segments and merges their results.
//
// The engine orchestrates:
//   - Per-segment sampling limits from the Poisson sampling table
//   - Parallel fan-out across segments with bounded concurrency
//   - Top-k merge with deterministic tie-breaking
//   - Reruns of segments whose sample may have truncated relevant points
package engine
