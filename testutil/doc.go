// Package testutil provides testing utilities for the pipeline.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random number generator and a synthetic population
// generator with known latent group structure, so clustering results can be
// checked against ground truth.
//
// # Seeded Randomness
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.GaussianVectors(100, 8)
//
// # Synthetic Populations
//
//	store := testutil.Population(t, rng, testutil.PopulationConfig{
//	    Groups:   3,
//	    PerGroup: 10,
//	    TraitDim: 4,
//	})
package testutil
