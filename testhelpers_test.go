package planc

// stringSerializer is the minimal Serializer stub used across tests.
type stringSerializer string

func (s stringSerializer) Name() string { return string(s) }

// stringPartitioner is the minimal StatePartitioner stub used across
// tests.
type stringPartitioner string

func (s stringPartitioner) Name() string { return string(s) }

// stubInputFormat is the minimal InputFormat stub used across tests.
type stubInputFormat string

func (s stubInputFormat) Name() string { return string(s) }

// stubStateBackend is an eagerly-serializable StateBackend stub.
type stubStateBackend struct {
	name    string
	payload []byte
	failErr error
}

func (s *stubStateBackend) Name() string { return s.name }

func (s *stubStateBackend) Serialize() ([]byte, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.payload, nil
}

// stubHookFactory is an eagerly-serializable MasterHookFactory stub.
type stubHookFactory struct {
	payload []byte
	failErr error
}

func (f *stubHookFactory) Serialize() ([]byte, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	return f.payload, nil
}

// stubHookOperator is an Operator that declares the master-trigger-hook
// capability.
type stubHookOperator struct {
	factory *stubHookFactory
}

func (o *stubHookOperator) MasterTriggerHookFactory() MasterHookFactory {
	return o.factory
}

// newLinearNode returns a StreamNode with the given id, name, parallelism
// and chaining strategy, ready to be wired into a small test graph.
func newLinearNode(id int, name string, parallelism int, strategy ChainingStrategy) *StreamNode {
	return &StreamNode{
		ID:                    id,
		OperatorName:          name,
		Parallelism:           parallelism,
		MaxParallelism:        128,
		ChainingStrategy:      strategy,
		SideOutputSerializers: make(map[string]Serializer),
	}
}

func forwardEdge(source, target int) *StreamEdge {
	return &StreamEdge{SourceID: source, TargetID: target, Partitioner: Partitioner{Kind: PartitionForward}}
}

func hashEdge(source, target int, name string) *StreamEdge {
	return &StreamEdge{SourceID: source, TargetID: target, Partitioner: Partitioner{Kind: PartitionKeyGroup, DisplayName: name}}
}
