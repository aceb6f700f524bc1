// Package entity provides the immutable in-memory store of analyzed entities.
//
// An entity is one analyzed individual: a stable uint32 id, an ordered numeric
// trait vector, a family id, an environment id, and an optional true-group
// label used only for downstream evaluation. The store is loaded once,
// validated up front, and read-only thereafter.
//
//	store, err := entity.Load(entities, entity.WithGeneticMatrix(dist))
//	if err != nil { ... } // *entity.ValidationError
//
// Trait-space helpers (TraitMatrix with optional z-score standardization,
// feature subsetting) exist so the hyperedge synthesizer never touches raw
// storage layout.
package entity
