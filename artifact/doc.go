// Package artifact persists synthesis and clustering results.
//
// A Store is a flat named-object space (local directory, in-memory map, or an
// object store such as S3). The Exporter serializes hyperedges, hypergraph
// summaries, and community assignments through a configurable codec and
// compression, and records both in a manifest so a Reader can open the
// artifacts without out-of-band knowledge.
package artifact
