// Package trace provides observability for a single plan-compilation run.
package trace

import "context"

// Emitter receives and processes observability events from a Compile call.
//
// Emitters enable pluggable observability backends:
//   - Logging: stdout, files.
//   - Distributed tracing: OpenTelemetry.
//   - In-memory capture for tests.
//
// Implementations should be non-blocking and safe to call from a single
// goroutine (compilation itself is single-threaded), and must not panic.
type Emitter interface {
	// Emit sends one observability event to the configured backend.
	Emit(event Event)

	// EmitBatch sends multiple events in a single operation. Events are
	// processed in order. Returns an error only on catastrophic failures;
	// individual event failures should be handled internally.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events are delivered. Safe to call more
	// than once.
	Flush(ctx context.Context) error
}
