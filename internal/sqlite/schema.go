package sqlite

// Schema DDL for the client state store. Statements are idempotent so that
// Attach can run them against an existing database without losing state.
const (
	createClientState = `CREATE TABLE IF NOT EXISTS client_state (
    profile TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (profile, key)
);`

	idxClientStateUpdated = `CREATE INDEX IF NOT EXISTS idx_client_state_updated ON client_state(updated_at);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createClientState,
	idxClientStateUpdated,
}

// Statements used by the state accessors.
const (
	selectState = `SELECT value FROM client_state WHERE profile = ? AND key = ?`
	upsertState = `INSERT INTO client_state (profile, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteState = `DELETE FROM client_state WHERE profile = ? AND key = ?`
)
