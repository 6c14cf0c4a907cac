package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stashview/internal/apperr"
)

// StashRow represents a row in the stashes table. Record holds the full
// record JSON; Owner, Items, Upgrades and NBT are flattened copies kept
// for filtering and search.
type StashRow struct {
	Key        string
	Kind       string
	Source     string
	Owner      string
	Dungeon    bool
	Items      string
	Upgrades   string
	NBT        string
	Record     string
	AccessTime int64
	UpdatedAt  time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Key     string
	Kind    string
	Owner   string
	Snippet string
}

const stashColumns = `key, kind, source, owner, dungeon, items, upgrades, nbt, record, access_time, updated_at`

// UpsertStash inserts or replaces a stash row and its FTS entry within a
// transaction.
func (db *DB) UpsertStash(row StashRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := upsertStashTx(tx, row); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertStashTx(tx *sql.Tx, row StashRow) error {
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now()
	}
	_, err := tx.Exec(`
		INSERT INTO stashes (`+stashColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			kind        = excluded.kind,
			source      = excluded.source,
			owner       = excluded.owner,
			dungeon     = excluded.dungeon,
			items       = excluded.items,
			upgrades    = excluded.upgrades,
			nbt         = excluded.nbt,
			record      = excluded.record,
			access_time = excluded.access_time,
			updated_at  = excluded.updated_at
	`, row.Key, row.Kind, row.Source, row.Owner, row.Dungeon,
		row.Items, row.Upgrades, row.NBT, row.Record, row.AccessTime, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert stash: %w", err)
	}
	return ftsUpsert(tx, row)
}

// ReplaceSource swaps all rows for one source file in a single
// transaction and records its checksum.
func (db *DB) ReplaceSource(path, kind, cs string, rows []StashRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteSourceTx(tx, path); err != nil {
		return err
	}
	for _, row := range rows {
		row.Source = path
		if err := upsertStashTx(tx, row); err != nil {
			return err
		}
	}
	_, err = tx.Exec(`
		INSERT INTO sources (path, kind, checksum, indexed_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			kind       = excluded.kind,
			checksum   = excluded.checksum,
			indexed_at = excluded.indexed_at
	`, path, kind, cs)
	if err != nil {
		return fmt.Errorf("index: upsert source: %w", err)
	}
	return tx.Commit()
}

// DeleteSource removes a source file and every row indexed from it.
func (db *DB) DeleteSource(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteSourceTx(tx, path); err != nil {
		return err
	}
	_, _ = tx.Exec(`DELETE FROM sources WHERE path = ?`, path)
	return tx.Commit()
}

func deleteSourceTx(tx *sql.Tx, path string) error {
	rows, err := tx.Query(`SELECT key FROM stashes WHERE source = ?`, path)
	if err != nil {
		return fmt.Errorf("index: keys for source: %w", err)
	}
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return err
		}
		keys = append(keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, k := range keys {
		ftsDelete(tx, k)
	}
	_, _ = tx.Exec(`DELETE FROM stashes WHERE source = ?`, path)
	return nil
}

// GetStash returns one row by key.
func (db *DB) GetStash(key string) (*StashRow, error) {
	row := db.conn.QueryRow(`SELECT `+stashColumns+` FROM stashes WHERE key = ?`, key)
	var r StashRow
	err := row.Scan(&r.Key, &r.Kind, &r.Source, &r.Owner, &r.Dungeon,
		&r.Items, &r.Upgrades, &r.NBT, &r.Record, &r.AccessTime, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get stash: %w", err)
	}
	return &r, nil
}

// ListStashes returns paginated rows with optional filters. kind narrows
// to one record kind; owner and item match as case-insensitive
// substrings against the flattened columns.
func (db *DB) ListStashes(kind, owner, item string, limit, offset int) ([]StashRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where := " WHERE 1=1"
	var args []any
	if kind != "" {
		where += " AND kind = ?"
		args = append(args, kind)
	}
	if owner != "" {
		where += " AND owner LIKE ?"
		args = append(args, "%"+owner+"%")
	}
	if item != "" {
		where += " AND items LIKE ?"
		args = append(args, "%"+item+"%")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM stashes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count stashes: %w", err)
	}

	rows, err := db.conn.Query(
		`SELECT `+stashColumns+` FROM stashes`+where+` ORDER BY key LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list stashes: %w", err)
	}
	defer rows.Close()

	var out []StashRow
	for rows.Next() {
		var r StashRow
		if err := rows.Scan(&r.Key, &r.Kind, &r.Source, &r.Owner, &r.Dungeon,
			&r.Items, &r.Upgrades, &r.NBT, &r.Record, &r.AccessTime, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// SourceChecksum returns the stored checksum for a source file, or empty
// string when the file has not been indexed yet.
func (db *DB) SourceChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM sources WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllSourceChecksums returns the checksum of every indexed source file.
func (db *DB) AllSourceChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("index: all source checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
