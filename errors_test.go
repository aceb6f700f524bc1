package hypergo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hypergo/cluster"
	"github.com/hupe1980/hypergo/entity"
	"github.com/hupe1980/hypergo/hypergraph"
	"github.com/hupe1980/hypergo/synth"
)

func TestTranslateError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("validation", func(t *testing.T) {
		cause := &entity.ValidationError{EntityID: 3, Field: "traits", Reason: "bad"}
		err := translateError(cause)

		require.ErrorIs(t, err, ErrValidation)
		var ve *entity.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, cause, ve)
	})

	t.Run("synth config", func(t *testing.T) {
		err := translateError(&synth.ConfigError{Rule: "trait-knn", Param: "k", Reason: "bad"})
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("cluster config", func(t *testing.T) {
		err := translateError(&cluster.ConfigError{Param: "max_levels", Reason: "bad"})
		require.ErrorIs(t, err, ErrConfig)
	})

	t.Run("structural", func(t *testing.T) {
		err := translateError(&hypergraph.StructuralError{Subject: "hyperedge 1", Reason: "bad"})
		require.ErrorIs(t, err, ErrStructural)
	})

	t.Run("passthrough", func(t *testing.T) {
		plain := errors.New("boom")
		assert.Equal(t, plain, translateError(plain))
	})
}
