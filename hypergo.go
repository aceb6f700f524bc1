package hypergo

import (
	"context"
	"time"

	"github.com/hupe1980/hypergo/artifact"
	"github.com/hupe1980/hypergo/cluster"
	"github.com/hupe1980/hypergo/entity"
	"github.com/hupe1980/hypergo/hypergraph"
	"github.com/hupe1980/hypergo/synth"
)

// Pipeline runs the full synthesis-and-clustering flow: rules over an entity
// store produce hyperedges, the hyperedges become a hypergraph, and the
// hypergraph is partitioned into communities by modularity maximization.
//
// A Pipeline is immutable after construction and safe for concurrent Run
// calls.
type Pipeline struct {
	opts options
}

// New creates a Pipeline with the given options.
func New(optFns ...Option) *Pipeline {
	return &Pipeline{opts: applyOptions(optFns)}
}

// Result bundles the outputs of one pipeline run.
type Result struct {
	// Hyperedges is the raw rule output before duplicate handling.
	Hyperedges []hypergraph.Hyperedge

	// Structure is the built hypergraph the partition was computed on.
	Structure *hypergraph.Structure

	// Partition assigns every hypergraph node to a community.
	Partition *cluster.Partition
}

// Modularity returns the score of the final partition.
func (r *Result) Modularity() float64 { return r.Partition.Modularity() }

// Run synthesizes hyperedges from the rules, builds the hypergraph, and
// clusters it. Identical input and options reproduce the identical result.
func (p *Pipeline) Run(ctx context.Context, store *entity.Store, rules []synth.Rule) (*Result, error) {
	logger := p.opts.logger
	if store != nil {
		logger = logger.WithEntities(store.Len())
	}

	start := time.Now()
	edges, err := synth.Synthesize(store, rules)
	p.opts.metricsCollector.RecordSynthesize(len(edges), time.Since(start), err)
	logger.LogSynthesize(ctx, len(rules), len(edges), err)
	if err != nil {
		return nil, translateError(err)
	}

	start = time.Now()
	s, err := hypergraph.Build(edges,
		hypergraph.WithDuplicatePolicy(p.opts.duplicatePolicy),
		hypergraph.WithStore(store),
	)
	if err != nil {
		p.opts.metricsCollector.RecordBuild(0, 0, time.Since(start), err)
		logger.LogBuild(ctx, 0, 0, err)
		return nil, translateError(err)
	}
	p.opts.metricsCollector.RecordBuild(s.NumNodes(), s.NumEdges(), time.Since(start), nil)
	logger.LogBuild(ctx, s.NumNodes(), s.NumEdges(), nil)

	cfg := p.opts.clusterConfig
	if p.opts.parallelism > 0 {
		cfg.Parallelism = p.opts.parallelism
	}

	start = time.Now()
	part, err := cluster.Cluster(ctx, s, cfg)
	if err != nil {
		p.opts.metricsCollector.RecordCluster(0, time.Since(start), err)
		logger.LogCluster(ctx, 0, 0, err)
		return nil, translateError(err)
	}
	p.opts.metricsCollector.RecordCluster(part.NumCommunities(), time.Since(start), nil)
	logger.LogCluster(ctx, part.NumCommunities(), part.Modularity(), nil)

	return &Result{
		Hyperedges: edges,
		Structure:  s,
		Partition:  part,
	}, nil
}

// Export artifact names within the manifest.
const (
	ArtifactHyperedges  = "hyperedges"
	ArtifactStructure   = "structure"
	ArtifactAssignments = "assignments"
	ArtifactCSV         = "assignments_csv"
	ArtifactTwoSection  = "two_section"
	ManifestName        = "manifest.json"
)

// Export writes the full result set into the artifact store using the
// pipeline's codec and compression: hyperedges, hypergraph summary,
// assignments (JSON and CSV), the 2-section edge list, and the manifest.
func (p *Pipeline) Export(ctx context.Context, store artifact.Store, res *Result) error {
	start := time.Now()
	err := p.export(ctx, store, res)
	p.opts.metricsCollector.RecordExport(6, time.Since(start), err)
	p.opts.logger.LogExport(ctx, 6, err)
	return err
}

func (p *Pipeline) export(ctx context.Context, store artifact.Store, res *Result) error {
	e := artifact.NewExporter(store,
		artifact.WithCodec(p.opts.codec),
		artifact.WithCompression(p.opts.compression),
	)

	if err := e.WriteHyperedges(ctx, ArtifactHyperedges, res.Hyperedges); err != nil {
		return err
	}
	if err := e.WriteStructure(ctx, ArtifactStructure, res.Structure); err != nil {
		return err
	}
	if err := e.WriteAssignments(ctx, ArtifactAssignments, res.Partition); err != nil {
		return err
	}
	if err := e.WriteAssignmentsCSV(ctx, ArtifactCSV, res.Partition); err != nil {
		return err
	}
	if err := e.WriteTwoSection(ctx, ArtifactTwoSection, res.Structure); err != nil {
		return err
	}
	return e.WriteManifest(ctx, ManifestName)
}
