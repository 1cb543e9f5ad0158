// Package session holds the signed-in user's token and profile.
//
// A Store mirrors both values into durable client storage. Every mutation
// writes storage first and memory second while holding the write lock, so a
// concurrent reader never sees the two disagree and a failed storage write
// leaves the in-memory state untouched.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/bazaar/internal/logging"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Store is the token store. The zero value is not usable; call New.
type Store struct {
	mu       sync.RWMutex
	storage  types.Storage
	log      logrus.FieldLogger
	loaded   bool
	token    string
	userInfo types.UserInfo
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report storage read failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New creates a Store backed by storage. Nothing is read until the first
// access.
func New(storage types.Storage, options ...Option) *Store {
	s := &Store{
		storage: storage,
		log:     logging.Discard(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Token returns the current token, or empty when signed out. The first call
// in a process reads the durable copy.
func (s *Store) Token(ctx context.Context) string {
	s.mu.RLock()
	if s.loaded {
		token := s.token
		s.mu.RUnlock()
		return token
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.token
}

// IsAuthenticated reports whether a non-empty token is held.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SetToken replaces the current token. An empty token is the same as
// RemoveToken.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.RemoveToken(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if err := s.storage.Set(ctx, types.StorageKeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.token = token
	return nil
}

// RemoveToken clears the token from storage and memory.
func (s *Store) RemoveToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if err := s.storage.Delete(ctx, types.StorageKeyToken); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	s.token = ""
	return nil
}

// UserInfo returns a copy of the stored profile, nil when none is set.
func (s *Store) UserInfo(ctx context.Context) types.UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return maps.Clone(s.userInfo)
}

// SetUserInfo replaces the stored profile.
func (s *Store) SetUserInfo(ctx context.Context, info types.UserInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if err := s.storage.Set(ctx, types.StorageKeyUserInfo, string(data)); err != nil {
		return fmt.Errorf("persist user info: %w", err)
	}
	s.userInfo = maps.Clone(info)
	return nil
}

// Logout clears the token and the profile together. Each value is cleared
// from memory only once its durable copy is gone.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	var errs []error
	if err := s.storage.Delete(ctx, types.StorageKeyToken); err != nil {
		errs = append(errs, fmt.Errorf("remove token: %w", err))
	} else {
		s.token = ""
	}
	if err := s.storage.Delete(ctx, types.StorageKeyUserInfo); err != nil {
		errs = append(errs, fmt.Errorf("remove user info: %w", err))
	} else {
		s.userInfo = nil
	}
	return errors.Join(errs...)
}

// loadLocked reads the durable copy once. Read failures degrade to an empty
// in-memory session. The caller must hold s.mu for writing.
func (s *Store) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	token, ok, err := s.storage.Get(ctx, types.StorageKeyToken)
	if err != nil {
		s.log.WithError(err).Warn("read persisted token; continuing signed out")
	} else if ok {
		s.token = token
	}

	raw, ok, err := s.storage.Get(ctx, types.StorageKeyUserInfo)
	if err != nil {
		s.log.WithError(err).Warn("read persisted user info")
		return
	}
	if !ok || raw == "" {
		return
	}
	var info types.UserInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		s.log.WithError(err).Warn("decode persisted user info")
		return
	}
	s.userInfo = info
}
