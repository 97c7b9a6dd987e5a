package planstore

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is an embeddable Store backed by a single SQLite file.
// Designed for the cmd/planc demo binary and for tests, without a running
// MySQL server. Uses WAL mode for concurrent reads.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (creating if needed) a plan cache at path. Pass
// ":memory:" for an ephemeral, process-local cache.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("planstore: open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("planstore: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("planstore: set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTable(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS plan_cache (
			plan_key TEXT PRIMARY KEY,
			vertex_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("planstore: create plan_cache table: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key PlanKey) (*JobGraphSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, fmt.Errorf("planstore: store closed")
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT vertex_count, edge_count, payload, created_at FROM plan_cache WHERE plan_key = ?",
		keyHex(key))

	var snap JobGraphSnapshot
	snap.Key = key
	if err := row.Scan(&snap.VertexCount, &snap.EdgeCount, &snap.Payload, &snap.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("planstore: get %x: %w", key, err)
	}
	return &snap, true, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, snap *JobGraphSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("planstore: store closed")
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_cache (plan_key, vertex_count, edge_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(plan_key) DO UPDATE SET
			vertex_count = excluded.vertex_count,
			edge_count = excluded.edge_count,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, keyHex(snap.Key), snap.VertexCount, snap.EdgeCount, snap.Payload, createdAt)
	if err != nil {
		return fmt.Errorf("planstore: put %x: %w", snap.Key, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func keyHex(key PlanKey) string {
	return hex.EncodeToString(key[:])
}
