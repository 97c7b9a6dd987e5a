package planc

import (
	"github.com/streamplan/planc/metrics"
	"github.com/streamplan/planc/trace"
)

// CompileOptions configures a single Compile invocation. The zero value
// compiles with no legacy hashers, a discarding trace emitter, and no
// metrics collection.
type CompileOptions struct {
	// JobID, if non-nil, is used as the output job graph's id verbatim.
	// When nil, Compile derives one deterministically from the compiled
	// vertex sequence.
	JobID *JobVertexID

	// LegacyHashers produce additional, backward-compatible per-node
	// hashes alongside the primary identity.
	LegacyHashers []LegacyHasher

	// Emitter receives one phase-scoped event pair per compiler stage and
	// one edge-scoped event per wired job edge. Defaults to a discarding
	// emitter.
	Emitter trace.Emitter

	// Metrics, if non-nil, records Prometheus instrumentation for this
	// compile.
	Metrics *metrics.Collector

	// CompileID correlates every event emitted during this call.
	CompileID string
}

// physicalEdge pairs a stream edge with the job edge the connector
// created for it, so the indexer can group them by target without
// re-deriving the job edge.
type physicalEdge struct {
	stream *StreamEdge
	job    *JobEdge
}

// builder holds all intermediate state for a single Compile invocation.
// None of it survives past the call that owns it; nothing here is shared
// across compilations.
type builder struct {
	graph   *Graph
	opts    CompileOptions
	emitter trace.Emitter

	hashes *hashResult

	built          map[int]bool
	jobVertices    map[int]*JobVertex
	chainedConfigs map[int]map[int]*StreamConfig

	// operatorIDs and userDefinedIDs accumulate, per chain start id, the
	// primary and first-legacy hash of every member visited, tail-first
	// (deepest member first, head last).
	operatorIDs    map[int][]JobVertexID
	userDefinedIDs map[int][]JobVertexID

	chainNames      map[int]string
	mergedMin       map[int]ResourceSpec
	mergedPreferred map[int]ResourceSpec

	physicalEdges []physicalEdge

	jobGraph *JobGraph
}

func newBuilder(g *Graph, opts CompileOptions) *builder {
	emitter := opts.Emitter
	if emitter == nil {
		emitter = trace.NewNullEmitter()
	}

	return &builder{
		graph:   g,
		opts:    opts,
		emitter: emitter,

		built:          make(map[int]bool),
		jobVertices:    make(map[int]*JobVertex),
		chainedConfigs: make(map[int]map[int]*StreamConfig),

		operatorIDs:    make(map[int][]JobVertexID),
		userDefinedIDs: make(map[int][]JobVertexID),

		chainNames:      make(map[int]string),
		mergedMin:       make(map[int]ResourceSpec),
		mergedPreferred: make(map[int]ResourceSpec),

		jobGraph: &JobGraph{
			JobName:      g.JobName,
			ScheduleMode: "EAGER",
		},
	}
}

func (b *builder) emitPhase(phase, msg string, meta map[string]interface{}) {
	b.emitter.Emit(trace.Event{
		CompileID: b.opts.CompileID,
		Phase:     phase,
		NodeID:    -1,
		EdgeFrom:  -1,
		EdgeTo:    -1,
		Msg:       msg,
		Meta:      meta,
	})
}
