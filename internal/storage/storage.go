// Package storage opens the durable client storage backend named in the
// configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/bazaar/internal/redisstore"
	"github.com/mesh-intelligence/bazaar/internal/sqlite"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Open returns an attached types.Storage for config.Backend. The caller
// must Close it.
func Open(ctx context.Context, profile string, config types.StorageConfig) (types.Storage, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case types.BackendSQLite:
		backend := sqlite.NewBackend(profile)
		if err := backend.Attach(config); err != nil {
			return nil, fmt.Errorf("attach sqlite: %w", err)
		}
		return backend, nil
	case types.BackendRedis:
		store, err := redisstore.Open(ctx, profile, config)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		return store, nil
	case types.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
