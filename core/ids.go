package core

// NodeID is the stable identifier of an entity (a hypergraph node).
// It is strictly 32-bit so node sets can be held in Roaring bitmaps
// and incidence structures without translation.
type NodeID uint32

// EdgeID identifies a hyperedge within one synthesis run.
// IDs are assigned sequentially in emission order, so for a fixed
// input and rule ordering they are identical across runs.
type EdgeID uint32
