package artifact

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hupe1980/hypergo/cluster"
	"github.com/hupe1980/hypergo/codec"
	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/hypergraph"
)

// ManifestVersion is written into every manifest; bump on breaking layout
// changes.
const ManifestVersion = 1

// EdgeRecord is the serialized form of one hyperedge.
type EdgeRecord struct {
	ID     core.EdgeID         `json:"id"`
	Nodes  []core.NodeID       `json:"nodes"`
	Tags   []hypergraph.TypeTag `json:"tags"`
	Weight float32             `json:"weight"`
}

// StructureDoc summarizes a built hypergraph together with its full edge
// list and the construction policies that shaped it.
type StructureDoc struct {
	NumNodes        int          `json:"num_nodes"`
	NumEdges        int          `json:"num_edges"`
	TotalWeight     float64      `json:"total_weight"`
	DuplicatePolicy string       `json:"duplicate_policy"`
	IsolatedPolicy  string       `json:"isolated_policy"`
	Edges           []EdgeRecord `json:"edges"`
}

// AssignmentsDoc holds a full community partition with its score.
type AssignmentsDoc struct {
	Modularity     float64              `json:"modularity"`
	NumCommunities int                  `json:"num_communities"`
	Assignments    []cluster.Assignment `json:"assignments"`
}

// Manifest is the self-describing index of an export run. It is always
// written as plain, uncompressed stdlib JSON so any reader can bootstrap
// from it.
type Manifest struct {
	Version     int               `json:"version"`
	Codec       string            `json:"codec"`
	Compression string            `json:"compression"`
	Artifacts   map[string]string `json:"artifacts"`
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithCodec sets the payload codec. Default codec.Default.
func WithCodec(c codec.Codec) ExporterOption {
	return func(e *Exporter) {
		e.codec = c
	}
}

// WithCompression sets the payload compression. Default None.
func WithCompression(c Compression) ExporterOption {
	return func(e *Exporter) {
		e.compression = c
	}
}

// Exporter writes artifacts into a Store and tracks them in a manifest.
// Not safe for concurrent use; run one exporter per export.
type Exporter struct {
	store       Store
	codec       codec.Codec
	compression Compression
	artifacts   map[string]string
}

// NewExporter creates an Exporter on the given store.
func NewExporter(store Store, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		store:       store,
		codec:       codec.Default,
		compression: None,
		artifacts:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Exporter) put(ctx context.Context, logical, object string, data []byte) error {
	compressed, err := e.compression.compress(data)
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, object, compressed); err != nil {
		return fmt.Errorf("artifact: put %s: %w", object, err)
	}
	e.artifacts[logical] = object
	return nil
}

func (e *Exporter) putDoc(ctx context.Context, logical string, doc any) error {
	data, err := e.codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", logical, err)
	}
	return e.put(ctx, logical, logical+".json"+e.compression.Ext(), data)
}

// WriteHyperedges exports a raw hyperedge list under the given logical name.
func (e *Exporter) WriteHyperedges(ctx context.Context, name string, edges []hypergraph.Hyperedge) error {
	records := make([]EdgeRecord, len(edges))
	for i, edge := range edges {
		records[i] = EdgeRecord{
			ID:     edge.ID,
			Nodes:  edge.Nodes,
			Tags:   edge.Tags,
			Weight: edge.Weight,
		}
	}
	return e.putDoc(ctx, name, records)
}

// WriteStructure exports the built hypergraph with its construction policies.
// Nodes that appear in no edge are absent by construction, so the isolated
// policy is always recorded as "dropped".
func (e *Exporter) WriteStructure(ctx context.Context, name string, s *hypergraph.Structure) error {
	edges := s.Edges()
	records := make([]EdgeRecord, len(edges))
	for i, edge := range edges {
		records[i] = EdgeRecord{
			ID:     edge.ID,
			Nodes:  edge.Nodes,
			Tags:   edge.Tags,
			Weight: edge.Weight,
		}
	}
	doc := StructureDoc{
		NumNodes:        s.NumNodes(),
		NumEdges:        s.NumEdges(),
		TotalWeight:     s.TotalWeight(),
		DuplicatePolicy: s.Policy().String(),
		IsolatedPolicy:  "dropped",
		Edges:           records,
	}
	return e.putDoc(ctx, name, doc)
}

// WriteAssignments exports a partition with its modularity score.
func (e *Exporter) WriteAssignments(ctx context.Context, name string, p *cluster.Partition) error {
	doc := AssignmentsDoc{
		Modularity:     p.Modularity(),
		NumCommunities: p.NumCommunities(),
		Assignments:    p.Assignments(),
	}
	return e.putDoc(ctx, name, doc)
}

// WriteAssignmentsCSV exports the flat entity-to-community table as CSV with
// an `entity_id,community_id` header, for spreadsheet and dataframe tooling.
func (e *Exporter) WriteAssignmentsCSV(ctx context.Context, name string, p *cluster.Partition) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"entity_id", "community_id"}); err != nil {
		return fmt.Errorf("artifact: csv %s: %w", name, err)
	}
	for _, a := range p.Assignments() {
		rec := []string{
			strconv.FormatUint(uint64(a.EntityID), 10),
			strconv.Itoa(a.CommunityID),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("artifact: csv %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("artifact: csv %s: %w", name, err)
	}

	return e.put(ctx, name, name+".csv"+e.compression.Ext(), buf.Bytes())
}

// WriteTwoSection exports the pairwise co-membership projection as a
// `source,target` CSV edge list for graph visualization tools.
func (e *Exporter) WriteTwoSection(ctx context.Context, name string, s *hypergraph.Structure) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"source", "target"}); err != nil {
		return fmt.Errorf("artifact: csv %s: %w", name, err)
	}
	for _, pair := range s.TwoSection() {
		rec := []string{
			strconv.FormatUint(uint64(pair[0]), 10),
			strconv.FormatUint(uint64(pair[1]), 10),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("artifact: csv %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("artifact: csv %s: %w", name, err)
	}

	return e.put(ctx, name, name+".csv"+e.compression.Ext(), buf.Bytes())
}

// WriteManifest finalizes the export by writing the manifest under the given
// object name. Artifacts written after this call are not covered.
func (e *Exporter) WriteManifest(ctx context.Context, name string) error {
	m := Manifest{
		Version:     ManifestVersion,
		Codec:       e.codec.Name(),
		Compression: e.compression.String(),
		Artifacts:   e.artifacts,
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("artifact: encode manifest: %w", err)
	}
	if err := e.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("artifact: put manifest: %w", err)
	}
	return nil
}
