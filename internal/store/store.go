// Package store persists indexed file snapshots in SQLite so repeated CLI
// invocations can rebuild graphs without re-reading the project tree. Graphs
// themselves are never persisted; they are derived views rebuilt in memory.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is stored in the metadata table; bump it when the schema
// changes so stale databases get rebuilt.
const SchemaVersion = "1"

// Store is the SQLite data access layer for the index snapshot.
type Store struct {
	db *sql.DB
}

// File is one indexed file snapshot.
type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	Source      string
	LineCount   int
	LastIndexed time.Time
}

// Import is one import statement row for a file.
type Import struct {
	Source     string
	Line       int
	IsTypeOnly bool
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return s.SetMetadata("schema_version", SchemaVersion)
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id            INTEGER PRIMARY KEY,
  path          TEXT NOT NULL UNIQUE,
  language      TEXT NOT NULL,
  hash          TEXT,
  source        TEXT NOT NULL,
  line_count    INTEGER,
  last_indexed  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS imports (
  id            INTEGER PRIMARY KEY,
  file_id       INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  source        TEXT NOT NULL,
  line          INTEGER,
  is_type_only  BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS metadata (
  key           TEXT PRIMARY KEY,
  value         TEXT
);

CREATE INDEX IF NOT EXISTS idx_imports_file ON imports(file_id);
CREATE INDEX IF NOT EXISTS idx_imports_source ON imports(source);
`

// SaveFile transactionally replaces a file's snapshot and import rows.
func (s *Store) SaveFile(f *File, imports []Import) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save file: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", f.Path); err != nil {
		return fmt.Errorf("save file: delete old: %w", err)
	}
	res, err := tx.Exec(
		"INSERT INTO files (path, language, hash, source, line_count, last_indexed) VALUES (?, ?, ?, ?, ?, ?)",
		f.Path, f.Language, f.Hash, f.Source, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return fmt.Errorf("save file: insert: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("save file: last id: %w", err)
	}
	f.ID = fileID

	for _, imp := range imports {
		if _, err := tx.Exec(
			"INSERT INTO imports (file_id, source, line, is_type_only) VALUES (?, ?, ?, ?)",
			fileID, imp.Source, imp.Line, imp.IsTypeOnly,
		); err != nil {
			return fmt.Errorf("save file: insert import: %w", err)
		}
	}
	return tx.Commit()
}

// FileByPath returns the snapshot for a path, or nil when not stored.
func (s *Store) FileByPath(path string) (*File, error) {
	row := s.db.QueryRow(
		"SELECT id, path, language, hash, source, COALESCE(line_count, 0), last_indexed FROM files WHERE path = ?",
		path,
	)
	f := &File{}
	err := row.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.Source, &f.LineCount, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns all stored file snapshots ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query(
		"SELECT id, path, language, hash, source, COALESCE(line_count, 0), last_indexed FROM files ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()

	var out []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.Source, &f.LineCount, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("files: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ImportsByFile returns a file's import rows in insertion order.
func (s *Store) ImportsByFile(fileID int64) ([]Import, error) {
	rows, err := s.db.Query(
		"SELECT source, COALESCE(line, 0), COALESCE(is_type_only, FALSE) FROM imports WHERE file_id = ? ORDER BY id",
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("imports by file: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.Source, &imp.Line, &imp.IsTypeOnly); err != nil {
			return nil, fmt.Errorf("imports by file: scan: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// DeleteFile removes a file snapshot and its imports. Missing paths are a
// no-op.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// GetMetadata returns the value for a metadata key, or "" when unset.
func (s *Store) GetMetadata(key string) (string, error) {
	row := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata upserts a metadata key.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}
