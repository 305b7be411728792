// Package sqlite provides a SQLite-backed implementation of the
// storage.Ledger interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mnair/societypay/internal/storage"
)

// Ensure LedgerStore implements storage.Ledger
var _ storage.Ledger = (*LedgerStore)(nil)

// LedgerStore implements storage.Ledger using SQLite.
type LedgerStore struct {
	db *sql.DB
}

// New creates a new LedgerStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*LedgerStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Multiple residents may submit concurrently; WAL keeps readers and
	// the appending writer from blocking each other.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &LedgerStore{db: db}, nil
}

// Close closes the database connection.
func (s *LedgerStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *LedgerStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &storage.TransientError{Op: "ping", Err: err}
	}
	return nil
}
