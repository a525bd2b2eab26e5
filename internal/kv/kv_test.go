package kv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LeonardoCerv/scratch-space/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns one of each Store implementation so shared behaviour
// is tested against both.
func stores(t *testing.T) map[string]kv.Store {
	t.Helper()

	fileStore, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return map[string]kv.Store{
		"file":   fileStore,
		"memory": kv.NewMemoryStore(),
	}
}

func TestStore_PutGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("a", []byte(`{"x":1}`)))

			data, err := s.Get("a")
			require.NoError(t, err)
			assert.Equal(t, `{"x":1}`, string(data))

			// Overwrite wins
			require.NoError(t, s.Put("a", []byte(`{"x":2}`)))
			data, err = s.Get("a")
			require.NoError(t, err)
			assert.Equal(t, `{"x":2}`, string(data))
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("nope")
			assert.ErrorIs(t, err, kv.ErrNotFound)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("a", []byte("data")))
			require.NoError(t, s.Delete("a"))

			_, err := s.Get("a")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			assert.ErrorIs(t, s.Delete("a"), kv.ErrNotFound)
		})
	}
}

func TestStore_List(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("a", []byte("1")))
			require.NoError(t, s.Put("b", []byte("2")))

			keys, err := s.List()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"a", "b"}, keys)
		})
	}
}

func TestFileStore_ListIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := kv.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put("doc", []byte("{}")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	keys, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, keys)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Put("../escape", []byte("x")))
	assert.Error(t, s.Put("", []byte("x")))
	_, err = s.Get("a/b")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	s, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	keys, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
