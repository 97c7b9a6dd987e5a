package planc

// indexPhysicalEdges inverts the globally ordered physicalEdges list
// into per-target in-edge lists, and writes each list into that
// target's chain-head stream config. Runs after every chain has been
// built and every connect call made, so per-target order reflects
// build order.
func (b *builder) indexPhysicalEdges() {
	grouped := make(map[int][]*JobEdge, len(b.jobVertices))
	var order []int
	seen := make(map[int]bool, len(b.jobVertices))

	for _, pe := range b.physicalEdges {
		target := pe.stream.TargetID
		grouped[target] = append(grouped[target], pe.job)
		if !seen[target] {
			seen[target] = true
			order = append(order, target)
		}
	}

	for _, target := range order {
		vertex := b.jobVertices[target]
		vertex.Config.InEdges = grouped[target]
	}
}
