package types

import (
	"context"
	"errors"
)

// Storage is the durable key/value surface the token store mirrors into.
// It plays the role browser local storage plays for a web client: scoped to
// one client profile and surviving process restarts.
type Storage interface {
	// Get returns the value stored under key. The boolean is false when the
	// key is absent; that is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Storage keys used by the token store.
const (
	StorageKeyToken    = "token"
	StorageKeyUserInfo = "user_info"
)

// Storage lifecycle errors.
var (
	ErrStorageDetached = errors.New("storage is detached")
	ErrAlreadyAttached = errors.New("storage is already attached")
	ErrInvalidKey      = errors.New("storage key must not be empty")
)
