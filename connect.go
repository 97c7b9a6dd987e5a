package planc

import "github.com/streamplan/planc/trace"

// connect wires a transitive out-edge leaving headOfChain's chain to the
// job vertex its target node heads. Records one observability event per
// connected edge.
func (b *builder) connect(headOfChain int, edge *StreamEdge) {
	head := b.jobVertices[headOfChain]
	down := b.jobVertices[edge.TargetID]

	down.NumInputs++

	dist := DistributionAllToAll
	if edge.Partitioner.Kind == PartitionForward || edge.Partitioner.Kind == PartitionRescale {
		dist = DistributionPointwise
	}

	jobEdge := &JobEdge{
		Source:               head,
		Target:               down,
		Distribution:         dist,
		ResultPartitionType:  PipelinedBounded,
		ShipStrategy:         edge.Partitioner.Name(),
	}

	b.physicalEdges = append(b.physicalEdges, physicalEdge{stream: edge, job: jobEdge})
	b.jobGraph.Edges = append(b.jobGraph.Edges, jobEdge)

	b.emitter.Emit(trace.Event{
		CompileID: b.opts.CompileID,
		Phase:     "connect",
		NodeID:    -1,
		EdgeFrom:  edge.SourceID,
		EdgeTo:    edge.TargetID,
		Msg:       "connect",
		Meta: map[string]interface{}{
			"distribution": dist.String(),
			"strategy":     jobEdge.ShipStrategy,
		},
	})
}
