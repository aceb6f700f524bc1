// Package hypergraph defines the canonical hypergraph structure consumed by
// the clustering engine.
//
// A Hyperedge is an immutable, named subset of entity ids plus provenance
// type tags and a weight. Build validates a hyperedge collection, applies the
// configured duplicate-node-set policy, and assembles the Structure: a sorted
// canonical node list, edges in first-seen order, and a bidirectional
// incidence index backed by Roaring bitmaps.
//
//	s, err := hypergraph.Build(edges,
//	    hypergraph.WithDuplicatePolicy(hypergraph.PolicyMerge),
//	    hypergraph.WithStore(store),
//	)
//
// Isolated entities never appear in the Structure: the node list is derived
// as the union of edge node sets, so an entity in no edge is dropped. The
// policy choices are recorded on the Structure and travel with exported
// artifacts so rebuilds are reproducible.
package hypergraph
