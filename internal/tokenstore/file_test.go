package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTripSurvivesNewInstance(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store := NewFileStore(path, "")
	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "abc123"))

	reopened := NewFileStore(path, DefaultKey)
	token, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_ClearRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path, "token")

	require.NoError(t, store.Save(ctx, "abc123"))
	require.NoError(t, store.Clear(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	assert.NoError(t, store.Clear(ctx))
}

func TestFileStore_ClearKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	other := NewFileStore(path, "other")
	require.NoError(t, other.Save(ctx, "keep-me"))
	store := NewFileStore(path, "token")
	require.NoError(t, store.Save(ctx, "drop-me"))

	require.NoError(t, store.Clear(ctx))

	token, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", token)
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path, "token")
	_, err := store.Load(ctx)
	assert.Error(t, err)

	require.NoError(t, store.Clear(ctx))
	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
