package artifact

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hypergo/cluster"
	"github.com/hupe1980/hypergo/codec"
	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/hypergraph"
)

func exportFixture(t *testing.T) (*hypergraph.Structure, *cluster.Partition) {
	t.Helper()

	edges := []hypergraph.Hyperedge{
		hypergraph.New(0, []core.NodeID{0, 1, 2}, hypergraph.TagFamilyMatch, 1),
		hypergraph.New(1, []core.NodeID{3, 4, 5}, hypergraph.TagFamilyMatch, 1),
	}
	s, err := hypergraph.Build(edges)
	require.NoError(t, err)

	p, err := cluster.Cluster(context.Background(), s, cluster.DefaultConfig())
	require.NoError(t, err)

	return s, p
}

func TestExportReadRoundTrip(t *testing.T) {
	s, p := exportFixture(t)
	ctx := context.Background()

	for _, comp := range []Compression{None, Gzip, Zstd, LZ4} {
		t.Run(comp.String(), func(t *testing.T) {
			store := NewMemoryStore()
			e := NewExporter(store, WithCompression(comp))

			require.NoError(t, e.WriteHyperedges(ctx, "hyperedges", s.Edges()))
			require.NoError(t, e.WriteStructure(ctx, "structure", s))
			require.NoError(t, e.WriteAssignments(ctx, "assignments", p))
			require.NoError(t, e.WriteManifest(ctx, "manifest.json"))

			r, err := OpenReader(ctx, store, "manifest.json")
			require.NoError(t, err)
			assert.Equal(t, codec.Default.Name(), r.Manifest().Codec)
			assert.Equal(t, comp.String(), r.Manifest().Compression)

			edges, err := r.ReadHyperedges(ctx, "hyperedges")
			require.NoError(t, err)
			assert.Equal(t, s.Edges(), edges)

			doc, err := r.ReadStructureDoc(ctx, "structure")
			require.NoError(t, err)
			assert.Equal(t, 6, doc.NumNodes)
			assert.Equal(t, 2, doc.NumEdges)
			assert.Equal(t, "merge", doc.DuplicatePolicy)
			assert.Equal(t, "dropped", doc.IsolatedPolicy)

			assigns, err := r.ReadAssignments(ctx, "assignments")
			require.NoError(t, err)
			assert.Equal(t, p.Assignments(), assigns.Assignments)
			assert.Equal(t, p.NumCommunities(), assigns.NumCommunities)
			assert.InDelta(t, p.Modularity(), assigns.Modularity, 1e-12)
		})
	}
}

func TestExportCSV(t *testing.T) {
	s, p := exportFixture(t)
	ctx := context.Background()

	store := NewMemoryStore()
	e := NewExporter(store)

	require.NoError(t, e.WriteAssignmentsCSV(ctx, "assignments", p))
	require.NoError(t, e.WriteTwoSection(ctx, "two_section", s))

	data, err := store.Get(ctx, "assignments.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "entity_id,community_id", lines[0])
	assert.Equal(t, "0,0", lines[1])
	assert.Equal(t, "5,1", lines[6])

	data, err = store.Get(ctx, "two_section.csv")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus 3 pairs per triad.
	require.Len(t, lines, 7)
	assert.Equal(t, "source,target", lines[0])
	assert.Equal(t, "0,1", lines[1])
}

func TestExportCodecSelection(t *testing.T) {
	s, _ := exportFixture(t)
	ctx := context.Background()

	store := NewMemoryStore()
	e := NewExporter(store, WithCodec(codec.JSONIndent{}))

	require.NoError(t, e.WriteHyperedges(ctx, "hyperedges", s.Edges()))
	require.NoError(t, e.WriteManifest(ctx, "manifest.json"))

	data, err := store.Get(ctx, "hyperedges.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ") // indented output

	r, err := OpenReader(ctx, store, "manifest.json")
	require.NoError(t, err)
	edges, err := r.ReadHyperedges(ctx, "hyperedges")
	require.NoError(t, err)
	assert.Equal(t, s.Edges(), edges)
}

func TestReaderErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("missing manifest", func(t *testing.T) {
		_, err := OpenReader(ctx, store, "manifest.json")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown codec", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "manifest.json",
			[]byte(`{"version":1,"codec":"msgpack","compression":"none","artifacts":{}}`)))

		_, err := OpenReader(ctx, store, "manifest.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown codec")
	})

	t.Run("unknown artifact name", func(t *testing.T) {
		e := NewExporter(store)
		require.NoError(t, e.WriteManifest(ctx, "manifest.json"))

		r, err := OpenReader(ctx, store, "manifest.json")
		require.NoError(t, err)

		_, err = r.ReadAssignments(ctx, "assignments")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
