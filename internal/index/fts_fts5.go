//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS stashes_fts USING fts5(
			key UNINDEXED,
			owner,
			items,
			nbt,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, row StashRow) error {
	_, _ = tx.Exec(`DELETE FROM stashes_fts WHERE key = ?`, row.Key)
	_, err := tx.Exec(`INSERT INTO stashes_fts (key, owner, items, nbt) VALUES (?, ?, ?, ?)`,
		row.Key, row.Owner, row.Items, row.NBT)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, key string) {
	_, _ = tx.Exec(`DELETE FROM stashes_fts WHERE key = ?`, key)
}

// Search performs an FTS5 full-text search and returns matching stashes
// with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.key,
		       s.kind,
		       f.owner,
		       snippet(stashes_fts, 2, '<b>', '</b>', '...', 64)
		FROM stashes_fts f
		JOIN stashes s ON s.key = f.key
		WHERE stashes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Key, &r.Kind, &r.Owner, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
