// Package index provides a SQLite-backed stash index with optional FTS5
// full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS stashes (
	key         TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	source      TEXT NOT NULL,
	owner       TEXT NOT NULL DEFAULT '',
	dungeon     INTEGER NOT NULL DEFAULT 0,
	items       TEXT NOT NULL DEFAULT '',
	upgrades    TEXT NOT NULL DEFAULT '',
	nbt         TEXT NOT NULL DEFAULT '',
	record      TEXT NOT NULL DEFAULT '{}',
	access_time INTEGER NOT NULL DEFAULT 0,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_stashes_kind ON stashes(kind);
CREATE INDEX IF NOT EXISTS idx_stashes_source ON stashes(source);
CREATE INDEX IF NOT EXISTS idx_stashes_owner ON stashes(owner);

CREATE TABLE IF NOT EXISTS sources (
	path       TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	checksum   TEXT NOT NULL DEFAULT '',
	indexed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
