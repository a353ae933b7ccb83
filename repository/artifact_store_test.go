package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-mascota-mockups/models"
)

func testArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()

	t.Run("get on a missing key is ErrArtifactNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "outputs/1/tee.png")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrArtifactNotFound))

		exists, err := store.Exists(ctx, "outputs/1/tee.png")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("put then get returns the same bytes", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "designs/4001/design.png", []byte("design")))

		data, err := store.Get(ctx, "designs/4001/design.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("design"), data)

		exists, err := store.Exists(ctx, "designs/4001/design.png")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "outputs/4001/hoodie-black.png", []byte("v1")))
		require.NoError(t, store.Put(ctx, "outputs/4001/hoodie-black.png", []byte("v2")))
		data, err := store.Get(ctx, "outputs/4001/hoodie-black.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)
	})

	t.Run("list filters by prefix", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "outputs/4001/tote.jpg", []byte("a")))
		require.NoError(t, store.Put(ctx, "outputs/40011/tote.jpg", []byte("b")))

		keys, err := store.List(ctx, "outputs/4001/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"outputs/4001/hoodie-black.png", "outputs/4001/tote.jpg"}, keys)
	})

	t.Run("delete removes and tolerates missing keys", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "outputs/4001/tote.jpg"))
		require.NoError(t, store.Delete(ctx, "outputs/4001/tote.jpg"))

		exists, err := store.Exists(ctx, "outputs/4001/tote.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestDiskArtifactStore(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	store, err := NewDiskArtifactStore(root)
	require.NoError(t, err)

	_, err = os.Stat(root)
	require.NoError(t, err, "expected cache directory to be created")

	testArtifactStoreContract(t, store)

	t.Run("rejects keys escaping the root", func(t *testing.T) {
		err := store.Put(context.Background(), "../outside.png", []byte("x"))
		assert.Error(t, err)
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(root, "designs", "4001"))
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp-")
		}
	})
}

func TestMemoryArtifactStore(t *testing.T) {
	store := NewMemoryArtifactStore()
	testArtifactStoreContract(t, store)

	t.Run("returned bytes are a copy", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, store.Put(ctx, "k", []byte("abc")))
		data, err := store.Get(ctx, "k")
		require.NoError(t, err)
		data[0] = 'z'

		again, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})
}
