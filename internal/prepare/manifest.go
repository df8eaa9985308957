package prepare

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const manifestSchemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path      TEXT PRIMARY KEY,
	title     TEXT NOT NULL DEFAULT '',
	category  TEXT NOT NULL DEFAULT '',
	checksum  TEXT NOT NULL DEFAULT '',
	staged_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_files_category ON files(category);
`

// FileEntry is one staged document in the manifest.
type FileEntry struct {
	Path     string
	Title    string
	Category string
	Checksum string
}

// Manifest records every staged file in a SQLite database so re-runs can
// skip unchanged files and remove stale ones.
type Manifest struct {
	conn *sql.DB
}

// OpenManifest opens (or creates) the manifest database and applies the schema.
func OpenManifest(dsn string) (*Manifest, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("manifest: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("manifest: ping: %w", err)
	}
	if _, err := conn.Exec(manifestSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("manifest: apply schema: %w", err)
	}
	return &Manifest{conn: conn}, nil
}

// Close closes the underlying database connection.
func (m *Manifest) Close() error {
	return m.conn.Close()
}

// Upsert inserts or replaces a file entry.
func (m *Manifest) Upsert(e FileEntry) error {
	_, err := m.conn.Exec(`
		INSERT INTO files (path, title, category, checksum, staged_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title     = excluded.title,
			category  = excluded.category,
			checksum  = excluded.checksum,
			staged_at = excluded.staged_at
	`, e.Path, e.Title, e.Category, e.Checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("manifest: upsert %s: %w", e.Path, err)
	}
	return nil
}

// Delete removes a file entry.
func (m *Manifest) Delete(path string) error {
	if _, err := m.conn.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("manifest: delete %s: %w", path, err)
	}
	return nil
}

// Checksums returns the checksum of every manifest entry keyed by path.
func (m *Manifest) Checksums() (map[string]string, error) {
	rows, err := m.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("manifest: checksums: %w", err)
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

// CategoryCounts returns the number of staged files per top-level category.
func (m *Manifest) CategoryCounts() (map[string]int, error) {
	rows, err := m.conn.Query(`SELECT category, COUNT(*) FROM files GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("manifest: category counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var c string
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, rows.Err()
}
