package hypergraph

import (
	"slices"

	"github.com/hupe1980/hypergo/core"
)

// TypeTag identifies the generation rule a hyperedge came from.
type TypeTag string

const (
	TagTraitKNN         TypeTag = "trait-knn"
	TagTraitThreshold   TypeTag = "trait-threshold"
	TagGeneticKNN       TypeTag = "genetic-knn"
	TagGeneticThreshold TypeTag = "genetic-threshold"
	TagFamilyMatch      TypeTag = "family-match"
	TagEnvironmentMatch TypeTag = "environment-match"
	TagComposite        TypeTag = "composite"
)

// DefaultWeight is the weight assigned to a hyperedge when none is given.
const DefaultWeight float32 = 1.0

// Hyperedge is a named, non-empty subset of entity ids with provenance
// metadata. Immutable after synthesis; Nodes is sorted and deduplicated.
type Hyperedge struct {
	ID     core.EdgeID
	Nodes  []core.NodeID
	Tags   []TypeTag
	Weight float32
}

// New canonicalizes the node set (sorted, duplicates collapsed) and returns a
// hyperedge. A non-positive weight falls back to DefaultWeight.
func New(id core.EdgeID, nodes []core.NodeID, tag TypeTag, weight float32) Hyperedge {
	canonical := slices.Clone(nodes)
	slices.Sort(canonical)
	canonical = slices.Compact(canonical)

	if weight <= 0 {
		weight = DefaultWeight
	}
	return Hyperedge{
		ID:     id,
		Nodes:  canonical,
		Tags:   []TypeTag{tag},
		Weight: weight,
	}
}

// Size returns the number of distinct nodes in the edge.
func (e Hyperedge) Size() int { return len(e.Nodes) }

// Contains reports whether the edge contains the given node.
func (e Hyperedge) Contains(id core.NodeID) bool {
	_, ok := slices.BinarySearch(e.Nodes, id)
	return ok
}

// HasTag reports whether the edge carries the given type tag.
func (e Hyperedge) HasTag(tag TypeTag) bool {
	return slices.Contains(e.Tags, tag)
}
