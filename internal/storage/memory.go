package storage

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

var _ types.Storage = (*Memory)(nil)

// Memory is a process-local types.Storage. State does not survive a
// restart; it backs --ephemeral sessions and tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, types.ErrStorageDetached
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return types.ErrStorageDetached
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return types.ErrStorageDetached
	}
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
