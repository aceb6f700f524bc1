package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/distance"
	"github.com/hupe1980/hypergo/entity"
	"github.com/hupe1980/hypergo/hypergraph"
)

// Four entities on a line: 0 at x=0, 1 at x=1, 2 at x=10, 3 at x=11.
func lineStore(t *testing.T, opts ...entity.LoadOption) *entity.Store {
	t.Helper()
	store, err := entity.Load([]entity.Entity{
		{ID: 0, Traits: []float32{0}, Family: "f1", Environment: "E1"},
		{ID: 1, Traits: []float32{1}, Family: "f1", Environment: "E1"},
		{ID: 2, Traits: []float32{10}, Family: "f2", Environment: "E2"},
		{ID: 3, Traits: []float32{11}, Family: "f2", Environment: "E2"},
	}, opts...)
	require.NoError(t, err)
	return store
}

func TestTraitKNN(t *testing.T) {
	store := lineStore(t)

	t.Run("Neighborhoods", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{TraitKNN{K: 1}})
		require.NoError(t, err)
		require.Len(t, edges, 4)

		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
		assert.Equal(t, []core.NodeID{0, 1}, edges[1].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[2].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[3].Nodes)
		for _, e := range edges {
			assert.Equal(t, []hypergraph.TypeTag{hypergraph.TagTraitKNN}, e.Tags)
		}
	})

	t.Run("KZeroSingletons", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{TraitKNN{K: 0}})
		require.NoError(t, err)
		require.Len(t, edges, 4)
		for i, e := range edges {
			assert.Equal(t, []core.NodeID{core.NodeID(i)}, e.Nodes)
		}
	})

	t.Run("KMaxAllOthers", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{TraitKNN{K: store.Len() - 1}})
		require.NoError(t, err)
		for _, e := range edges {
			assert.Equal(t, []core.NodeID{0, 1, 2, 3}, e.Nodes)
		}
	})

	t.Run("KTooLarge", func(t *testing.T) {
		_, err := Synthesize(store, []Rule{TraitKNN{K: store.Len()}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "k", ce.Param)
	})

	t.Run("TieBreakAscendingID", func(t *testing.T) {
		// 1 and 2 are equidistant from 0: the lower id wins.
		tied, err := entity.Load([]entity.Entity{
			{ID: 0, Traits: []float32{0}, Environment: "E1"},
			{ID: 1, Traits: []float32{1}, Environment: "E1"},
			{ID: 2, Traits: []float32{-1}, Environment: "E1"},
		})
		require.NoError(t, err)

		edges, err := Synthesize(tied, []Rule{TraitKNN{K: 1}})
		require.NoError(t, err)
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
	})

	t.Run("Metric", func(t *testing.T) {
		_, err := Synthesize(store, []Rule{TraitKNN{K: 1, Metric: distance.Metric(42)}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("CosineScaleInvariant", func(t *testing.T) {
		byAngle, err := entity.Load([]entity.Entity{
			{ID: 0, Traits: []float32{1, 0}, Environment: "E1"},
			{ID: 1, Traits: []float32{10, 1}, Environment: "E1"},
			{ID: 2, Traits: []float32{0, 1}, Environment: "E1"},
			{ID: 3, Traits: []float32{1, 12}, Environment: "E1"},
		})
		require.NoError(t, err)

		edges, err := Synthesize(byAngle, []Rule{TraitKNN{K: 1, Metric: distance.MetricCosine}})
		require.NoError(t, err)
		require.Len(t, edges, 4)

		// Magnitudes differ wildly, but by direction 0 pairs with 1 and 2
		// pairs with 3.
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
		assert.Equal(t, []core.NodeID{0, 1}, edges[1].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[2].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[3].Nodes)

		scaled, err := entity.Load([]entity.Entity{
			{ID: 0, Traits: []float32{100, 0}, Environment: "E1"},
			{ID: 1, Traits: []float32{10, 1}, Environment: "E1"},
			{ID: 2, Traits: []float32{0, 0.01}, Environment: "E1"},
			{ID: 3, Traits: []float32{1, 12}, Environment: "E1"},
		})
		require.NoError(t, err)

		scaledEdges, err := Synthesize(scaled, []Rule{TraitKNN{K: 1, Metric: distance.MetricCosine}})
		require.NoError(t, err)
		require.Len(t, scaledEdges, 4)
		for i := range edges {
			assert.Equal(t, edges[i].Nodes, scaledEdges[i].Nodes)
		}
	})
}

func TestTraitThreshold(t *testing.T) {
	store := lineStore(t)

	t.Run("Above", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{TraitThreshold{Feature: 0, Op: OpGT, Value: 5}})
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, []core.NodeID{2, 3}, edges[0].Nodes)
	})

	t.Run("EmptyNoEdge", func(t *testing.T) {
		_, err := Synthesize(store, []Rule{TraitThreshold{Feature: 0, Op: OpGT, Value: 100}})
		// The rule itself is fine; zero edges is a synthesis result, so the
		// error surfaces later, at build time.
		require.NoError(t, err)
	})

	t.Run("BadFeature", func(t *testing.T) {
		_, err := Synthesize(store, []Rule{TraitThreshold{Feature: 5, Op: OpGT, Value: 0}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
	})
}

func geneticMatrix() [][]float32 {
	// Two tight pairs: (0,1) and (2,3).
	return [][]float32{
		{0, 0.1, 0.9, 0.9},
		{0.1, 0, 0.9, 0.9},
		{0.9, 0.9, 0, 0.1},
		{0.9, 0.9, 0.1, 0},
	}
}

func TestGeneticRules(t *testing.T) {
	store := lineStore(t, entity.WithGeneticMatrix(geneticMatrix()))

	t.Run("KNN", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{GeneticKNN{K: 1}})
		require.NoError(t, err)
		require.Len(t, edges, 4)
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[3].Nodes)
	})

	t.Run("KNNWithoutMatrix", func(t *testing.T) {
		_, err := Synthesize(lineStore(t), []Rule{GeneticKNN{K: 1}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "genetic_matrix", ce.Param)
	})

	t.Run("Threshold", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{GeneticThreshold{MaxDist: 0.2}})
		require.NoError(t, err)
		require.Len(t, edges, 4)
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[2].Nodes)
	})

	t.Run("ThresholdMinSize", func(t *testing.T) {
		// Nothing is within 0.05 of anything else, so every candidate edge is
		// a singleton and falls below the default min size of 2.
		edges, err := Synthesize(store, []Rule{GeneticThreshold{MaxDist: 0.05}})
		require.NoError(t, err)
		assert.Empty(t, edges)
	})
}

func TestFamilyAndEnvironmentMatch(t *testing.T) {
	store, err := entity.Load([]entity.Entity{
		{ID: 0, Traits: []float32{0}, Family: "f1", Environment: "E1"},
		{ID: 1, Traits: []float32{0}, Family: "f1", Environment: "E2"},
		{ID: 2, Traits: []float32{0}, Family: "f2", Environment: "E1"},
		{ID: 3, Traits: []float32{0}, Family: "", Environment: "E1"},
	})
	require.NoError(t, err)

	t.Run("FamilyDropsSingletons", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{FamilyMatch{}})
		require.NoError(t, err)
		// f2 has one member, the unaffiliated entity has none: only f1 emits.
		require.Len(t, edges, 1)
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
	})

	t.Run("Environment", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{EnvironmentMatch{}})
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, []core.NodeID{0, 2, 3}, edges[0].Nodes)
	})
}

func TestComposite(t *testing.T) {
	store := lineStore(t)

	t.Run("Intersection", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{Composite{
			A:       FamilyMatch{},
			B:       EnvironmentMatch{},
			Combine: CombineIntersection,
			MinSize: 2,
		}})
		require.NoError(t, err)
		// Families and environments coincide pairwise: two surviving
		// intersections out of four combinations.
		require.Len(t, edges, 2)
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)
		assert.Equal(t, []core.NodeID{2, 3}, edges[1].Nodes)
		assert.Equal(t, []hypergraph.TypeTag{hypergraph.TagComposite}, edges[0].Tags)
	})

	t.Run("Union", func(t *testing.T) {
		edges, err := Synthesize(store, []Rule{Composite{
			A:       FamilyMatch{},
			B:       EnvironmentMatch{},
			Combine: CombineUnion,
		}})
		require.NoError(t, err)
		require.Len(t, edges, 4)
		assert.Equal(t, []core.NodeID{0, 1}, edges[0].Nodes)          // f1 ∪ E1
		assert.Equal(t, []core.NodeID{0, 1, 2, 3}, edges[1].Nodes)    // f1 ∪ E2
	})

	t.Run("MissingSubRule", func(t *testing.T) {
		_, err := Synthesize(store, []Rule{Composite{A: FamilyMatch{}}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
	})
}

func TestSynthesizeInvariants(t *testing.T) {
	store := lineStore(t, entity.WithGeneticMatrix(geneticMatrix()))
	rules := []Rule{
		TraitKNN{K: 2, Standardize: true},
		TraitThreshold{Feature: 0, Op: OpLT, Value: 5},
		GeneticKNN{K: 1},
		FamilyMatch{},
		EnvironmentMatch{},
	}

	edges, err := Synthesize(store, rules)
	require.NoError(t, err)
	require.NotEmpty(t, edges)

	t.Run("MembershipAndUniqueness", func(t *testing.T) {
		for _, e := range edges {
			require.NotEmpty(t, e.Nodes)
			seen := make(map[core.NodeID]struct{})
			for _, id := range e.Nodes {
				assert.True(t, store.Contains(id))
				_, dup := seen[id]
				assert.False(t, dup, "duplicate id %d in edge %d", id, e.ID)
				seen[id] = struct{}{}
			}
		}
	})

	t.Run("SequentialIDs", func(t *testing.T) {
		for i, e := range edges {
			assert.Equal(t, core.EdgeID(i), e.ID)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		again, err := Synthesize(store, rules)
		require.NoError(t, err)
		assert.Equal(t, edges, again)
	})
}

func TestSynthesizeErrors(t *testing.T) {
	t.Run("NilStore", func(t *testing.T) {
		_, err := Synthesize(nil, []Rule{FamilyMatch{}})
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
	})

	t.Run("NoRules", func(t *testing.T) {
		_, err := Synthesize(lineStore(t), nil)
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
	})
}
