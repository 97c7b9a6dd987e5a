package planc

import "time"

// Compile transforms g into a job graph, generating the output job id
// deterministically from the compiled vertex sequence. Equivalent to
// CompileWithOptions(g, CompileOptions{}).
func Compile(g *Graph) (*JobGraph, error) {
	return CompileWithOptions(g, CompileOptions{})
}

// CompileWithJobID compiles g, attaching jobID to the output job graph
// verbatim instead of deriving one.
func CompileWithJobID(g *Graph, jobID JobVertexID) (*JobGraph, error) {
	return CompileWithOptions(g, CompileOptions{JobID: &jobID})
}

// CompileWithOptions runs hashing, chaining, edge indexing, placement,
// and checkpoint assembly in sequence against g and assembles the
// resulting JobGraph. Compilation is single-threaded and
// synchronous: no part of opts or g is touched concurrently, and the
// returned error, when non-nil, means no job graph is returned at all.
func CompileWithOptions(g *Graph, opts CompileOptions) (*JobGraph, error) {
	start := time.Now()
	b := newBuilder(g, opts)

	b.emitPhase("hash", "phase_start", nil)
	hashes, err := computeHashes(g, opts.LegacyHashers)
	if err != nil {
		b.emitPhase("hash", "phase_end", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	b.hashes = hashes
	b.emitPhase("hash", "phase_end", nil)

	b.emitPhase("chain", "phase_start", nil)
	for _, src := range g.Sources() {
		b.build(src, src, 0)
	}
	b.emitPhase("chain", "phase_end", nil)

	b.emitPhase("index", "phase_start", nil)
	b.indexPhysicalEdges()
	b.emitPhase("index", "phase_end", nil)

	b.emitPhase("placement", "phase_start", nil)
	if err := b.resolvePlacement(); err != nil {
		b.emitPhase("placement", "phase_end", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	b.emitPhase("placement", "phase_end", nil)

	b.emitPhase("checkpoint", "phase_start", nil)
	checkpointing, err := b.assembleCheckpointing()
	if err != nil {
		b.emitPhase("checkpoint", "phase_end", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	b.jobGraph.Checkpointing = checkpointing
	b.emitPhase("checkpoint", "phase_end", nil)

	execBlob, err := g.ExecutionConfig.Serialize()
	if err != nil {
		return nil, optionErr("executionConfig", ErrNonSerializableExecutionConfig)
	}
	b.jobGraph.ExecutionConfigBlob = execBlob
	if len(g.CachedFiles) > 0 {
		b.jobGraph.UserArtifacts = append([]string(nil), g.CachedFiles...)
	}

	if opts.JobID != nil {
		b.jobGraph.JobID = *opts.JobID
	} else {
		b.jobGraph.JobID = deriveJobID(b.jobGraph.Vertices)
	}

	if opts.Metrics != nil {
		opts.Metrics.RecordJobGraph(len(b.jobGraph.Vertices), len(b.jobGraph.Edges), b.chainedOperatorCount())
		opts.Metrics.RecordCompileDuration(time.Since(start))
	}

	return b.jobGraph, nil
}

// chainedOperatorCount sums, across every job vertex, the number of tail
// members fused into it — operators chained away rather than
// materialized as their own vertex.
func (b *builder) chainedOperatorCount() int {
	count := 0
	for _, v := range b.jobVertices {
		count += len(v.Config.ChainedConfigs)
	}
	return count
}
