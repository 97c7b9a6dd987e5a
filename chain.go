package planc

import "strings"

// build implements C3: it recursively walks currentId's out-edges,
// materializing one job vertex per chain at the point where currentId
// equals startId. It returns the chain's transitive out-edges — the
// non-chainable edges reachable from currentId without crossing another
// chain boundary, in chainable-recursion-result-then-nonChainable order.
//
// built prevents a chain from being materialized twice when its head is
// reached by more than one non-chainable predecessor.
func (b *builder) build(startID, currentID, chainIndex int) []*StreamEdge {
	if b.built[startID] {
		return nil
	}

	node := b.graph.Node(currentID)
	outEdges := b.graph.OutEdges(currentID)

	var chainable, nonChainable []*StreamEdge
	for _, e := range outEdges {
		if isChainable(e, b.graph) {
			chainable = append(chainable, e)
		} else {
			nonChainable = append(nonChainable, e)
			if b.opts.Metrics != nil {
				b.opts.Metrics.IncrementChainabilityRejections(rejectionReason(e, b.graph))
			}
		}
	}

	var transitiveOut []*StreamEdge
	var childNames []string
	mergedMin := node.MinResources
	mergedPreferred := node.PreferredResources

	for _, e := range chainable {
		childOut := b.build(startID, e.TargetID, chainIndex+1)
		transitiveOut = append(transitiveOut, childOut...)
		childNames = append(childNames, b.chainNames[e.TargetID])
		mergedMin = mergedMin.Add(b.mergedMin[e.TargetID])
		mergedPreferred = mergedPreferred.Add(b.mergedPreferred[e.TargetID])
	}

	for _, e := range nonChainable {
		transitiveOut = append(transitiveOut, e)
		b.build(e.TargetID, e.TargetID, 0)
	}

	// Recursion into chainable children above has already appended their
	// ids, so this append lands currentID after its children: the
	// accumulated order is tail-first (deepest member first, head last).
	primary := b.hashes.primary[currentID]
	b.operatorIDs[startID] = append(b.operatorIDs[startID], JobVertexID(primary))
	if legacies := b.hashes.legacy[currentID]; len(legacies) > 0 {
		b.userDefinedIDs[startID] = append(b.userDefinedIDs[startID], JobVertexID(legacies[0]))
		if b.opts.Metrics != nil {
			for range legacies {
				b.opts.Metrics.IncrementLegacyHashesAttached(b.graph.JobName)
			}
		}
	}

	name := chainDisplayName(node.OperatorName, childNames)
	b.chainNames[currentID] = name
	b.mergedMin[currentID] = mergedMin
	b.mergedPreferred[currentID] = mergedPreferred

	var cfg *StreamConfig
	if currentID == startID {
		vertex := b.materializeJobVertex(startID, mergedMin, mergedPreferred, name)
		cfg = vertex.Config
	} else {
		cfg = NewStreamConfig()
	}

	b.populateStreamConfig(cfg, node, chainable, nonChainable)
	cfg.OperatorID = JobVertexID(primary)

	if currentID == startID {
		cfg.ChainStart = true
		cfg.ChainIndex = 0
		cfg.TransitiveOutEdges = transitiveOut
		cfg.RawOutEdges = outEdges

		for _, e := range transitiveOut {
			b.connect(startID, e)
		}

		cfg.ChainedConfigs = b.chainedConfigs[startID]
		cfg.ChainedOperatorIDs = b.operatorIDs[startID]
		cfg.ChainedUserDefinedOperatorIDs = b.userDefinedIDs[startID]
	} else {
		cfg.ChainIndex = chainIndex
		cfg.OperatorName = node.OperatorName

		if b.chainedConfigs[startID] == nil {
			b.chainedConfigs[startID] = make(map[int]*StreamConfig)
		}
		b.chainedConfigs[startID][currentID] = cfg
	}

	if len(chainable) == 0 {
		cfg.ChainEnd = true
	}

	return transitiveOut
}

// chainDisplayName formats a chain's aggregate name from its head
// operator name and its chainable children's already-computed names, in
// edge order: "op", "op -> child", or "op -> (child1, child2, ...)".
func chainDisplayName(opName string, childNames []string) string {
	switch len(childNames) {
	case 0:
		return opName
	case 1:
		return opName + " -> " + childNames[0]
	default:
		return opName + " -> (" + strings.Join(childNames, ", ") + ")"
	}
}

// materializeJobVertex implements C3.1: create the job vertex for the
// chain rooted at startID, choosing an input-format vertex when the node
// declares one, and register it as built.
func (b *builder) materializeJobVertex(startID int, mergedMin, mergedPreferred ResourceSpec, name string) *JobVertex {
	node := b.graph.Node(startID)
	primary := b.hashes.primary[startID]

	vertex := &JobVertex{
		ID:                 JobVertexID(primary),
		Name:               name,
		MinResources:       mergedMin,
		PreferredResources: mergedPreferred,
		InvokableClass:     node.InvokableClass,
		Parallelism:        DefaultParallelism,
		MaxParallelism:     node.MaxParallelism,
		Config:             NewStreamConfig(),
	}

	for _, lh := range b.hashes.legacy[startID] {
		vertex.LegacyIDs = append(vertex.LegacyIDs, JobVertexID(lh))
	}

	if node.InputFormat != nil {
		vertex.Kind = JobVertexInputFormat
		vertex.InputFormat = node.InputFormat
	}

	if node.Parallelism > 0 {
		vertex.Parallelism = node.Parallelism
	}

	b.jobVertices[startID] = vertex
	b.built[startID] = true
	b.jobGraph.Vertices = append(b.jobGraph.Vertices, vertex)

	return vertex
}

// populateStreamConfig implements C3.2: fill in currentNode's
// per-operator fields on cfg. Called for both the chain head (whose cfg
// additionally carries the aggregate fields build sets afterwards) and
// every tail member.
func (b *builder) populateStreamConfig(cfg *StreamConfig, node *StreamNode, chainable, nonChainable []*StreamEdge) {
	cfg.NodeID = node.ID
	cfg.BufferTimeoutMS = node.BufferTimeoutMS

	cfg.InputSerializer1 = node.InputSerializer1
	cfg.InputSerializer2 = node.InputSerializer2
	cfg.OutputSerializer = node.OutputSerializer

	for _, e := range chainable {
		if e.SideOutputTag != "" {
			if ser, ok := node.SideOutputSerializers[e.SideOutputTag]; ok {
				cfg.SideOutputSerializers[e.SideOutputTag] = ser
			}
		}
	}
	for _, e := range nonChainable {
		if e.SideOutputTag != "" {
			if ser, ok := node.SideOutputSerializers[e.SideOutputTag]; ok {
				cfg.SideOutputSerializers[e.SideOutputTag] = ser
			}
		}
	}

	cfg.Operator = node.Operator

	cfg.NonChainableOutputs = nonChainable
	cfg.ChainableOutputs = chainable

	cfg.TimeCharacteristic = node.TimeCharacteristic
	cfg.StateBackend = b.graph.StateBackend
	cfg.CheckpointingEnabled = b.graph.CheckpointConfig.Enabled
	if cfg.CheckpointingEnabled {
		cfg.CheckpointingMode = CheckpointModeExactlyOnce
	} else {
		cfg.CheckpointingMode = CheckpointModeAtLeastOnce
	}

	cfg.StatePartitioner1 = node.StatePartitioner1
	cfg.StatePartitioner2 = node.StatePartitioner2
	cfg.StateKeySerializer = node.StateKeySerializer

	if node.IterationID != "" {
		cfg.IterationBrokerID = node.IterationID
		cfg.IterationTimeoutMS = node.IterationTimeoutMS
	}
}
