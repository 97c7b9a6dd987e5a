package planc

// isChainable implements the nine-condition chainability predicate.
// Any single failing condition yields a chain boundary at edge e.
func isChainable(e *StreamEdge, g *Graph) bool {
	if !g.ChainingEnabled {
		return false
	}

	target := g.Node(e.TargetID)
	source := g.Node(e.SourceID)
	if target == nil || source == nil {
		return false
	}

	if len(g.InEdges(e.TargetID)) != 1 {
		return false
	}

	if source.SlotSharingGroup != target.SlotSharingGroup {
		return false
	}

	if target.ChainingStrategy != ChainAlways {
		return false
	}

	if source.ChainingStrategy != ChainHead && source.ChainingStrategy != ChainAlways {
		return false
	}

	if e.Partitioner.Kind != PartitionForward {
		return false
	}

	if source.Parallelism != target.Parallelism {
		return false
	}

	return true
}

// rejectionReason reports which of isChainable's conditions failed first,
// for metrics labeling only; it duplicates isChainable's checks rather
// than threading a reason out of it, keeping the predicate itself pure
// and side-effect free.
func rejectionReason(e *StreamEdge, g *Graph) string {
	if !g.ChainingEnabled {
		return "chaining_disabled"
	}

	target := g.Node(e.TargetID)
	source := g.Node(e.SourceID)
	if target == nil || source == nil {
		return "missing_operator"
	}

	if len(g.InEdges(e.TargetID)) != 1 {
		return "fan_in"
	}

	if source.SlotSharingGroup != target.SlotSharingGroup {
		return "slot_sharing_group"
	}

	if target.ChainingStrategy != ChainAlways {
		return "target_strategy"
	}

	if source.ChainingStrategy != ChainHead && source.ChainingStrategy != ChainAlways {
		return "source_strategy"
	}

	if e.Partitioner.Kind != PartitionForward {
		return "partitioner"
	}

	if source.Parallelism != target.Parallelism {
		return "parallelism"
	}

	return "none"
}
