// Package planstore provides an optional, durable cache of compiled job
// graphs keyed by a 16-byte plan key.
//
// Compile itself never touches a Store: planstore sits entirely outside the
// core compiler, letting a caller short-circuit recompilation of a graph it
// has already seen.
package planstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is a sentinel for a PlanKey with no cached snapshot. The
// Store implementations in this package do not return it: their Get
// reports a missing key with ok=false and a nil error.
var ErrNotFound = errors.New("planstore: not found")

// PlanKey is the 16-byte key a snapshot is cached under. This package does
// not derive it; cmd/planc uses the compiled job graph's JobID.
type PlanKey [16]byte

// JobGraphSnapshot is a cached compiled job graph. Payload is the caller's
// chosen serialization of the job graph (typically JSON); planstore stores
// and retrieves it opaquely so it never needs to import the compiler
// package that produces it.
type JobGraphSnapshot struct {
	Key          PlanKey
	VertexCount  int
	EdgeCount    int
	Payload      []byte
	CreatedAt    time.Time
}

// Store persists and retrieves JobGraphSnapshots keyed by PlanKey.
//
// Implementations: SQLiteStore (embeddable, used by cmd/planc and tests),
// MySQLStore (durable, shared across compiler instances).
type Store interface {
	// Get returns the cached snapshot for key, or ok=false if absent.
	Get(ctx context.Context, key PlanKey) (snap *JobGraphSnapshot, ok bool, err error)

	// Put stores or overwrites the snapshot for snap.Key.
	Put(ctx context.Context, snap *JobGraphSnapshot) error

	// Close releases any underlying resources (file handles, connections).
	Close() error
}
