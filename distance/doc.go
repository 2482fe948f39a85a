// Package distance provides vector distance calculations.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default, lower is better)
//   - MetricCosine: Cosine similarity (normalized dot product, higher is better)
//   - MetricDot: Dot product (inner product, higher is better)
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	normalized, ok := distance.NormalizeL2Copy(vec)
package distance
