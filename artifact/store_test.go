package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	t.Run("put get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "runs/a.json", []byte(`{"x":1}`)))

		data, err := s.Get(ctx, "runs/a.json")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"x":1}`), data)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "runs/a.json", []byte(`{"x":2}`)))

		data, err := s.Get(ctx, "runs/a.json")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"x":2}`), data)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get(ctx, "runs/missing.json")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "runs/b.json", []byte("b")))
		require.NoError(t, s.Put(ctx, "other/c.json", []byte("c")))

		names, err := s.List(ctx, "runs/")
		require.NoError(t, err)
		assert.Equal(t, []string{"runs/a.json", "runs/b.json"}, names)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "runs/a.json"))
		require.NoError(t, s.Delete(ctx, "runs/a.json")) // idempotent

		_, err := s.Get(ctx, "runs/a.json")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLocalStoreListEmptyRoot(t *testing.T) {
	s := NewLocalStore(t.TempDir() + "/never-created")

	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "a", []byte("one")))
	require.NoError(t, s.Put(ctx, "ab", []byte("two")))
	require.NoError(t, s.Put(ctx, "b", []byte("three")))

	data, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	// Mutating the returned slice must not affect the stored bytes.
	data[0] = 'X'
	data, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	names, err := s.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab"}, names)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := []byte(`{"assignments":[{"entity_id":0,"community_id":0},{"entity_id":1,"community_id":0}]}`)

	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			compressed, err := c.compress(payload)
			require.NoError(t, err)

			out, err := c.decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestCompressionByName(t *testing.T) {
	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		got, ok := CompressionByName(c.String())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := CompressionByName("brotli")
	assert.False(t, ok)
}
