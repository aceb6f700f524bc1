// Package distance provides the distance metrics used by k-nearest-neighbor
// hyperedge synthesis over trait vectors.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean distance (default, matches trait-space kNN)
//   - MetricSquaredL2: Squared Euclidean distance (same neighbor ordering,
//     cheaper to compute)
//   - MetricManhattan: L1 distance
//   - MetricCosine: Cosine distance (1 - cosine similarity)
//
// # Usage
//
//	fn, err := distance.Provider(distance.MetricEuclidean)
//	d := fn(a, b)
//
// All functions assume both vectors have the same length; dimensionality is
// validated once by the entity store, not per call.
package distance
