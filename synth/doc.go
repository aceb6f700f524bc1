// Package synth turns an entity store and a list of rule configurations into
// typed hyperedges.
//
// Rules form a closed tagged-variant set: TraitKNN, TraitThreshold,
// GeneticKNN, GeneticThreshold, FamilyMatch, EnvironmentMatch and Composite.
// Every rule is validated before any edge is produced; a malformed rule fails
// the whole run with *ConfigError rather than being reinterpreted at use
// time.
//
//	edges, err := synth.Synthesize(store, []synth.Rule{
//	    synth.TraitKNN{K: 3, Standardize: true},
//	    synth.FamilyMatch{},
//	    synth.Composite{A: synth.FamilyMatch{}, B: synth.EnvironmentMatch{}, Combine: synth.CombineIntersection, MinSize: 2},
//	})
//
// Synthesis is a pure transform: no randomness, no side effects. For a fixed
// store and rule ordering the emitted hyperedge ids and composition are
// identical across runs. Equal k-NN distances are broken by ascending entity
// id.
package synth
