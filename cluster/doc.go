// Package cluster implements hypergraph modularity community detection.
//
// The engine optimizes
//
//	Q(C) = (1/W) Σ_e w(e)·f(e,C)  −  (1/W) Σ_d W_d Σ_c E_d(c)
//
// where f is an edge-homogeneity function (Strict: 1 iff the edge lies fully
// inside one community; Majority: the plurality fraction when it exceeds a
// configurable threshold) and the expectation term penalizes homogeneity that
// a random edge placement would achieve anyway. Two null models are
// available: degree-preserving (binomial over community volume fractions) and
// uniform (hypergeometric over community node counts).
//
// Optimization is a Louvain-style greedy hill-climber: every node starts in
// its own community, nodes are visited in ascending id order, and each node
// moves to the candidate community (drawn from its hyperedge co-members) with
// the best strictly positive modularity gain, ties broken by lowest community
// id. When a full pass moves nothing the level converges; communities are
// then contracted into super-nodes and the procedure repeats up to MaxLevels.
//
// The result is a local maximum, not a global one, and is fully deterministic
// for a fixed input and configuration: no randomness is used anywhere.
// Candidate-gain evaluation can run data-parallel (Parallelism > 1); move
// decisions stay serialized to preserve the visitation order.
package cluster
