// Package hypergo synthesizes hypergraphs from entity collections and
// partitions them into communities by hypergraph-modularity maximization.
//
// Entities carry trait vectors plus categorical family and environment
// attributes, and optionally a genetic-distance matrix. Declarative rules
// (k-nearest-neighbor, threshold, group-match, composite) turn them into
// weighted hyperedges; a Louvain-style optimizer then finds a node partition
// that scores well against a configurable null model.
//
// # Quick Start
//
//	store, _ := entity.Load(entities)
//	p := hypergo.New()
//	res, _ := p.Run(ctx, store, []synth.Rule{
//	    synth.TraitKNN{K: 3, Standardize: true},
//	    synth.FamilyMatch{},
//	})
//	for _, a := range res.Partition.Assignments() {
//	    fmt.Println(a.EntityID, a.CommunityID)
//	}
//
// # Artifacts
//
// Results export to any artifact.Store (local directory, in-memory, S3,
// MinIO) as JSON and CSV, with optional gzip/zstd/lz4 compression:
//
//	_ = p.Export(ctx, artifact.NewLocalStore("./out"), res)
//
// # Determinism
//
// Every stage is deterministic: identical input, rules, and configuration
// reproduce byte-identical partitions and artifacts, regardless of the
// configured parallelism.
package hypergo
