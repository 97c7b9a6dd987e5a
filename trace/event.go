// Package trace provides observability for a single plan-compilation run.
package trace

// Event represents an observability event emitted during stream-graph
// compilation.
//
// Events are phase-scoped (hashing, chain building, edge connection,
// indexing, placement, checkpoint assembly) or edge-scoped: the compiler
// emits exactly one edge-scoped event per wired job edge, matching the
// core's "single debug trace per connected edge" contract.
type Event struct {
	// CompileID correlates all events emitted by one Compile call. Empty
	// when the caller did not supply one.
	CompileID string

	// Phase names the compiler stage that produced this event, e.g.
	// "hash", "chain", "connect", "index", "placement", "checkpoint".
	Phase string

	// NodeID identifies the stream node this event concerns, or -1 if
	// the event is not node-scoped.
	NodeID int

	// EdgeFrom and EdgeTo identify the stream edge this event concerns.
	// Both are -1 for events that are not edge-scoped.
	EdgeFrom int
	EdgeTo   int

	// Msg is a short, human-readable description, e.g. "phase_start",
	// "phase_end", "connect".
	Msg string

	// Meta carries additional structured detail specific to the event,
	// e.g. {"distribution": "POINTWISE", "strategy": "FORWARD"}.
	Meta map[string]interface{}
}
