package planstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB-backed Store for production deployments
// where the plan cache must survive process restarts and be shared across
// multiple compiler instances.
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewMySQLStore opens a connection pool against dsn and ensures the
// plan_cache table exists.
//
// dsn follows the go-sql-driver/mysql DSN format, e.g.
// "user:password@tcp(127.0.0.1:3306)/planc?parseTime=true".
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("planstore: open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("planstore: ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) createTable(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS plan_cache (
			plan_key VARCHAR(32) PRIMARY KEY,
			vertex_count INT NOT NULL,
			edge_count INT NOT NULL,
			payload LONGBLOB NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("planstore: create plan_cache table: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *MySQLStore) Get(ctx context.Context, key PlanKey) (*JobGraphSnapshot, bool, error) {
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
func (s *MySQLStore) Put(ctx context.Context, snap *JobGraphSnapshot) error {
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
		ON DUPLICATE KEY UPDATE
			vertex_count = VALUES(vertex_count),
			edge_count = VALUES(edge_count),
			payload = VALUES(payload),
			created_at = VALUES(created_at)
	`, keyHex(snap.Key), snap.VertexCount, snap.EdgeCount, snap.Payload, createdAt)
	if err != nil {
		return fmt.Errorf("planstore: put %x: %w", snap.Key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
