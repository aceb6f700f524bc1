package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hypergo/core"
)

const individualsCSV = `individual_id,true_group,family_id,environment
0,G1,0,E1
1,G1,0,E2
2,G2,-1,E1
`

const traitsCSV = `individual_id,trait_0,trait_1
0,1.5,-0.5
1,2.0,0.25
2,-1.0,3.0
`

const geneticCSV = `,1,0,2
1,0,0.5,0.7
0,0.5,0,0.9
2,0.7,0.9,0
`

func TestLoadCSV(t *testing.T) {
	store, err := LoadCSV(strings.NewReader(individualsCSV), strings.NewReader(traitsCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, []string{"trait_0", "trait_1"}, store.TraitNames())

	e, ok := store.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "0", e.Family)
	assert.Equal(t, "E2", e.Environment)
	assert.Equal(t, "G1", e.TrueGroup)
	assert.Equal(t, []float32{2.0, 0.25}, e.Traits)

	// family_id -1 maps to unaffiliated.
	e, ok = store.ByID(2)
	require.True(t, ok)
	assert.Empty(t, e.Family)
}

func TestLoadCSVErrors(t *testing.T) {
	t.Run("MissingColumn", func(t *testing.T) {
		bad := "individual_id,true_group\n0,G1\n"
		_, err := LoadCSV(strings.NewReader(bad), strings.NewReader(traitsCSV))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("MissingTraitRow", func(t *testing.T) {
		short := "individual_id,trait_0\n0,1.5\n"
		_, err := LoadCSV(strings.NewReader(individualsCSV), strings.NewReader(short))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("NonNumericTrait", func(t *testing.T) {
		bad := "individual_id,trait_0\n0,abc\n1,1\n2,2\n"
		_, err := LoadCSV(strings.NewReader(individualsCSV), strings.NewReader(bad))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestLoadGeneticCSV(t *testing.T) {
	m, err := LoadGeneticCSV(strings.NewReader(geneticCSV))
	require.NoError(t, err)
	require.Len(t, m, 3)

	// Reordered into ascending-id order regardless of file order.
	assert.InDelta(t, 0.5, m[0][1], 1e-6)
	assert.InDelta(t, 0.9, m[0][2], 1e-6)
	assert.InDelta(t, 0.7, m[1][2], 1e-6)
	for i := 0; i < 3; i++ {
		assert.Zero(t, m[i][i])
	}

	store, err := LoadCSV(strings.NewReader(individualsCSV), strings.NewReader(traitsCSV), WithGeneticMatrix(m))
	require.NoError(t, err)

	d, ok := store.GeneticDistance(core.NodeID(0), core.NodeID(2))
	require.True(t, ok)
	assert.InDelta(t, 0.9, d, 1e-6)
}
