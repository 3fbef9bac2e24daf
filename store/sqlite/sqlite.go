/*
Package sqlite provides a SQLite-backed snapshot store.

PURPOSE:
  Durable home for the ledger's opaque state blob. The ledger core never
  touches disk; the application saves a snapshot here after each mutation and
  loads the latest one at startup. The blob's encoding is the ledger's
  business - this store treats it as bytes.

SCHEMA:
  A single-row table. Every save replaces the previous blob; history is not
  kept (the ledger itself is the audit trail).

WAL MODE:
  SQLite is opened with WAL so a read during a save never blocks.

USAGE:
  store, err := sqlite.New("./data/club.db")
  ...
  blob, err := store.Load(ctx)       // ledger.ErrNoSnapshot on first run
  err = store.Save(ctx, blob)

SEE ALSO:
  - ledger/snapshot.go: produces and consumes the blob
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/topspin/club-ledger/ledger"
)

// Store persists ledger snapshots in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database at the given path and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		blob BLOB NOT NULL,
		saved_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored blob.
func (s *Store) Save(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, blob, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET blob = excluded.blob, saved_at = excluded.saved_at`,
		blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the latest blob, or ledger.ErrNoSnapshot when none was saved.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM snapshots WHERE id = 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return blob, nil
}
