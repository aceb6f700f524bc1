package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hypergo/core"
)

func testEntities() []Entity {
	return []Entity{
		{ID: 2, Traits: []float32{1, 2}, Family: "f1", Environment: "E1", TrueGroup: "G1"},
		{ID: 0, Traits: []float32{0, 0}, Family: "f1", Environment: "E2", TrueGroup: "G1"},
		{ID: 1, Traits: []float32{3, 4}, Family: "", Environment: "E1", TrueGroup: "G2"},
	}
}

func TestLoad(t *testing.T) {
	store, err := Load(testEntities())
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 2, store.TraitDim())
	assert.Equal(t, []core.NodeID{0, 1, 2}, store.IDs())

	e, ok := store.ByID(2)
	require.True(t, ok)
	assert.Equal(t, "f1", e.Family)

	_, ok = store.ByID(99)
	assert.False(t, ok)

	i, ok := store.Ordinal(1)
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name     string
		entities []Entity
		opts     []LoadOption
	}{
		{"Empty", nil, nil},
		{"DuplicateID", []Entity{
			{ID: 1, Traits: []float32{1}, Environment: "E1"},
			{ID: 1, Traits: []float32{2}, Environment: "E1"},
		}, nil},
		{"InconsistentTraits", []Entity{
			{ID: 1, Traits: []float32{1}, Environment: "E1"},
			{ID: 2, Traits: []float32{1, 2}, Environment: "E1"},
		}, nil},
		{"MissingEnvironment", []Entity{
			{ID: 1, Traits: []float32{1}, Environment: ""},
		}, nil},
		{"GeneticShape", testEntities(), []LoadOption{
			WithGeneticMatrix([][]float32{{0, 1}, {1, 0}}),
		}},
		{"GeneticNegative", testEntities(), []LoadOption{
			WithGeneticMatrix([][]float32{
				{0, 1, 1},
				{1, 0, -1},
				{1, 1, 0},
			}),
		}},
		{"TraitNameCount", testEntities(), []LoadOption{
			WithTraitNames([]string{"only_one"}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.entities, tt.opts...)
			require.Error(t, err)

			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestGeneticDistance(t *testing.T) {
	m := [][]float32{
		{0, 0.5, 0.9},
		{0.5, 0, 0.7},
		{0.9, 0.7, 0},
	}
	store, err := Load(testEntities(), WithGeneticMatrix(m))
	require.NoError(t, err)
	require.True(t, store.HasGenetic())

	// Matrix rows follow ascending-id order: 0, 1, 2.
	d, ok := store.GeneticDistance(0, 2)
	require.True(t, ok)
	assert.InDelta(t, 0.9, d, 1e-6)

	_, ok = store.GeneticDistance(0, 99)
	assert.False(t, ok)

	noMatrix, err := Load(testEntities())
	require.NoError(t, err)
	_, ok = noMatrix.GeneticDistance(0, 1)
	assert.False(t, ok)
}

func TestGrouping(t *testing.T) {
	store, err := Load(testEntities())
	require.NoError(t, err)

	families := store.Families()
	require.Len(t, families, 1) // unaffiliated entity 1 is excluded
	assert.Equal(t, "f1", families[0].Key)
	assert.Equal(t, []core.NodeID{0, 2}, families[0].Members)

	envs := store.Environments()
	require.Len(t, envs, 2)
	assert.Equal(t, "E1", envs[0].Key)
	assert.Equal(t, []core.NodeID{1, 2}, envs[0].Members)
	assert.Equal(t, []core.NodeID{0}, envs[1].Members)
}

func TestTraitMatrix(t *testing.T) {
	store, err := Load(testEntities())
	require.NoError(t, err)

	t.Run("All", func(t *testing.T) {
		m, err := store.TraitMatrix(nil, false)
		require.NoError(t, err)
		require.Len(t, m, 3)
		assert.Equal(t, []float32{0, 0}, m[0]) // id 0
		assert.Equal(t, []float32{3, 4}, m[1]) // id 1
	})

	t.Run("Subset", func(t *testing.T) {
		m, err := store.TraitMatrix([]int{1}, false)
		require.NoError(t, err)
		assert.Equal(t, []float32{4}, m[1])
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := store.TraitMatrix([]int{2}, false)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("Standardized", func(t *testing.T) {
		m, err := store.TraitMatrix(nil, true)
		require.NoError(t, err)

		// Each column must have zero mean.
		for j := 0; j < 2; j++ {
			var sum float32
			for i := range m {
				sum += m[i][j]
			}
			assert.InDelta(t, 0, sum, 1e-5)
		}
	})
}
