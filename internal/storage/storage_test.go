package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bazaar/internal/sqlite"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite backend", func(t *testing.T) {
		s, err := Open(ctx, "", types.StorageConfig{Backend: types.BackendSQLite, DataDir: t.TempDir()})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &sqlite.Backend{}, s)
	})

	t.Run("memory backend", func(t *testing.T) {
		s, err := Open(ctx, "", types.StorageConfig{Backend: types.BackendMemory})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &Memory{}, s)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, "", types.StorageConfig{Backend: "etcd"})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})

	t.Run("redis without address", func(t *testing.T) {
		_, err := Open(ctx, "", types.StorageConfig{Backend: types.BackendRedis})
		assert.ErrorIs(t, err, types.ErrRedisAddrEmpty)
	})
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)

	assert.ErrorIs(t, m.Set(ctx, "", "v"), types.ErrInvalidKey)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), types.ErrStorageDetached)
}
