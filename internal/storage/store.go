// ABOUTME: SQLite-backed per-session vector index using modernc.org/sqlite
// ABOUTME: Storage handle is injected at construction, default path follows XDG
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

// Store holds indexed records for all sessions in one SQLite database.
// Sessions are isolated partitions keyed by session ID.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDBPath returns the XDG data path for the knowledge database.
// Respects XDG_DATA_HOME override for testing.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "knowledge-agent", "knowledge.db")
}

// NewStore opens the store at the default XDG path
func NewStore() (*Store, error) {
	return NewStoreWithPath(DefaultDBPath())
}

// NewStoreWithPath opens (or creates) the store at the given path
func NewStoreWithPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return open(path)
}

// NewStoreInMemory opens an in-memory store for tests
func NewStoreInMemory() (*Store, error) {
	return open(":memory:")
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: keeps :memory: databases coherent and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path (empty for in-memory stores)
func (s *Store) Path() string {
	if s.path == ":memory:" {
		return ""
	}
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
