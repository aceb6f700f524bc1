package artifact

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/hypergo/codec"
	"github.com/hupe1980/hypergo/hypergraph"
)

// Reader opens artifacts previously written by an Exporter. The manifest
// names the codec and compression, so the reader needs no configuration
// beyond the store and manifest location.
type Reader struct {
	store       Store
	codec       codec.Codec
	compression Compression
	manifest    Manifest
}

// OpenReader loads the manifest and resolves the codec and compression it
// names. Fails if either is unknown to this build.
func OpenReader(ctx context.Context, store Store, manifestName string) (*Reader, error) {
	data, err := store.Get(ctx, manifestName)
	if err != nil {
		return nil, fmt.Errorf("artifact: get manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("artifact: decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("artifact: unsupported manifest version %d", m.Version)
	}

	c, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, fmt.Errorf("artifact: unknown codec %q", m.Codec)
	}
	comp, ok := CompressionByName(m.Compression)
	if !ok {
		return nil, fmt.Errorf("artifact: unknown compression %q", m.Compression)
	}

	return &Reader{store: store, codec: c, compression: comp, manifest: m}, nil
}

// Manifest returns the loaded manifest.
func (r *Reader) Manifest() Manifest { return r.manifest }

func (r *Reader) getDoc(ctx context.Context, name string, v any) error {
	object, ok := r.manifest.Artifacts[name]
	if !ok {
		return fmt.Errorf("artifact: %q not in manifest: %w", name, ErrNotFound)
	}

	data, err := r.store.Get(ctx, object)
	if err != nil {
		return fmt.Errorf("artifact: get %s: %w", object, err)
	}
	data, err = r.compression.decompress(data)
	if err != nil {
		return err
	}
	if err := r.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: decode %s: %w", object, err)
	}
	return nil
}

// ReadHyperedges loads a hyperedge list written by WriteHyperedges.
func (r *Reader) ReadHyperedges(ctx context.Context, name string) ([]hypergraph.Hyperedge, error) {
	var records []EdgeRecord
	if err := r.getDoc(ctx, name, &records); err != nil {
		return nil, err
	}

	edges := make([]hypergraph.Hyperedge, len(records))
	for i, rec := range records {
		edges[i] = hypergraph.Hyperedge{
			ID:     rec.ID,
			Nodes:  rec.Nodes,
			Tags:   rec.Tags,
			Weight: rec.Weight,
		}
	}
	return edges, nil
}

// ReadStructureDoc loads a hypergraph summary written by WriteStructure.
func (r *Reader) ReadStructureDoc(ctx context.Context, name string) (StructureDoc, error) {
	var doc StructureDoc
	if err := r.getDoc(ctx, name, &doc); err != nil {
		return StructureDoc{}, err
	}
	return doc, nil
}

// ReadAssignments loads a partition written by WriteAssignments.
func (r *Reader) ReadAssignments(ctx context.Context, name string) (AssignmentsDoc, error) {
	var doc AssignmentsDoc
	if err := r.getDoc(ctx, name, &doc); err != nil {
		return AssignmentsDoc{}, err
	}
	return doc, nil
}
