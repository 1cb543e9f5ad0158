// Package sqlite implements durable client storage on SQLite.
//
// A Backend keeps one small key/value table scoped by profile. It is the
// default home of the persisted token and user profile, filling the role
// browser local storage plays for a web client.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// DatabaseFile is the file created inside the configured data directory.
const DatabaseFile = "client.db"

var _ types.Storage = (*Backend)(nil)

// Backend implements types.Storage using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	profile  string
	config   types.StorageConfig
	db       *sql.DB
	now      func() time.Time
}

// NewBackend creates a new SQLite backend for the given profile.
// The backend is not attached; call Attach with a StorageConfig to initialize.
func NewBackend(profile string) *Backend {
	if profile == "" {
		profile = types.DefaultProfile
	}
	return &Backend{
		profile: profile,
		now:     time.Now,
	}
}

// Attach opens (creating if needed) the database in config.DataDir and
// applies the schema. Existing state is preserved across attaches.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.StorageConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers; the table is tiny.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStorageDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Close implements types.Storage by detaching.
func (b *Backend) Close() error {
	return b.Detach()
}

// Path returns the database file location, or empty when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return ""
	}
	dataDir := b.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, DatabaseFile)
}

// Get returns the value stored under key for this backend's profile.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, types.ErrInvalidKey
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return "", false, types.ErrStorageDetached
	}

	var value string
	err := b.db.QueryRowContext(ctx, selectState, b.profile, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (b *Backend) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStorageDetached
	}

	updatedAt := b.now().UTC().Format(time.RFC3339Nano)
	if _, err := b.db.ExecContext(ctx, upsertState, b.profile, key, value, updatedAt); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStorageDetached
	}

	if _, err := b.db.ExecContext(ctx, deleteState, b.profile, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
