// Tests for the SQLite client storage backend.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

func attachTemp(t *testing.T, dir, profile string) *Backend {
	t.Helper()
	b := NewBackend(profile)
	require.NoError(t, b.Attach(types.StorageConfig{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend("")
	config := types.StorageConfig{Backend: types.BackendSQLite, DataDir: tmpDir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, DatabaseFile))
	assert.NoError(t, err, "client.db not created")
	assert.Equal(t, filepath.Join(tmpDir, DatabaseFile), b.Path())

	// Verify double attach fails
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend("")
	assert.ErrorIs(t, b.Attach(types.StorageConfig{}), types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	ctx := context.Background()
	b := NewBackend("")
	require.NoError(t, b.Attach(types.StorageConfig{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	// Verify idempotent
	require.NoError(t, b.Detach())
	assert.Empty(t, b.Path())

	_, _, err := b.Get(ctx, types.StorageKeyToken)
	assert.ErrorIs(t, err, types.ErrStorageDetached)
	assert.ErrorIs(t, b.Set(ctx, types.StorageKeyToken, "x"), types.ErrStorageDetached)
	assert.ErrorIs(t, b.Delete(ctx, types.StorageKeyToken), types.ErrStorageDetached)
}

func TestBackend_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	b := attachTemp(t, t.TempDir(), "")

	_, ok, err := b.Get(ctx, types.StorageKeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "fresh database should have no token")

	require.NoError(t, b.Set(ctx, types.StorageKeyToken, "abc123"))
	got, ok, err := b.Get(ctx, types.StorageKeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", got)

	// Overwrite
	require.NoError(t, b.Set(ctx, types.StorageKeyToken, "def456"))
	got, _, err = b.Get(ctx, types.StorageKeyToken)
	require.NoError(t, err)
	assert.Equal(t, "def456", got)

	require.NoError(t, b.Delete(ctx, types.StorageKeyToken))
	_, ok, err = b.Get(ctx, types.StorageKeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is not an error
	assert.NoError(t, b.Delete(ctx, types.StorageKeyToken))
}

func TestBackend_EmptyKey(t *testing.T) {
	ctx := context.Background()
	b := attachTemp(t, t.TempDir(), "")

	_, _, err := b.Get(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
	assert.ErrorIs(t, b.Set(ctx, "", "v"), types.ErrInvalidKey)
	assert.ErrorIs(t, b.Delete(ctx, ""), types.ErrInvalidKey)
}

func TestBackend_SurvivesReattach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewBackend("")
	require.NoError(t, first.Attach(types.StorageConfig{Backend: types.BackendSQLite, DataDir: dir}))
	require.NoError(t, first.Set(ctx, types.StorageKeyToken, "persisted"))
	require.NoError(t, first.Detach())

	second := attachTemp(t, dir, "")
	got, ok, err := second.Get(ctx, types.StorageKeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", got)
}

func TestBackend_ProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	alice := attachTemp(t, dir, "alice")
	require.NoError(t, alice.Set(ctx, types.StorageKeyToken, "alice-token"))
	require.NoError(t, alice.Detach())

	bob := attachTemp(t, dir, "bob")
	_, ok, err := bob.Get(ctx, types.StorageKeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "bob must not see alice's token")
}
