package planc

// JobVertexID is a 16-byte content-derived identity. It equals the
// primary hash of the vertex's chain head.
type JobVertexID [16]byte

// DistributionPattern is the data-shuffle shape of a job edge.
type DistributionPattern int

const (
	DistributionPointwise DistributionPattern = iota
	DistributionAllToAll
)

func (d DistributionPattern) String() string {
	if d == DistributionPointwise {
		return "POINTWISE"
	}
	return "ALL_TO_ALL"
}

// ResultPartitionType is the result-partition kind attached to every
// job edge. The core only ever emits PipelinedBounded.
type ResultPartitionType int

const (
	PipelinedBounded ResultPartitionType = iota
)

func (r ResultPartitionType) String() string {
	return "PIPELINED_BOUNDED"
}

// DefaultParallelism is the vertex parallelism used when a stream node
// does not declare one (Parallelism <= 0, meaning "inherit").
const DefaultParallelism = -1

// JobVertexKind distinguishes a plain vertex from one wrapping an input
// format.
type JobVertexKind int

const (
	JobVertexPlain JobVertexKind = iota
	JobVertexInputFormat
)

// SlotSharingGroup is a named equivalence class of vertices whose
// parallel subtasks may share execution slots.
type SlotSharingGroup struct {
	Name string
}

// CoLocationGroup constrains the corresponding parallel subtasks of its
// Members to run in the same slot.
type CoLocationGroup struct {
	Name    string
	Members []JobVertexID
}

// StreamConfig is the per-vertex configuration map attached to a job
// vertex. A chain head's StreamConfig additionally carries the chain's aggregate
// fields (ChainedConfigs, TransitiveOutEdges, InEdges); a tail member's
// StreamConfig carries only its own per-operator fields.
type StreamConfig struct {
	NodeID int

	BufferTimeoutMS int64

	InputSerializer1 Serializer
	InputSerializer2 Serializer
	OutputSerializer Serializer

	SideOutputSerializers map[string]Serializer

	Operator        interface{}
	OutputSelectors []interface{}

	NonChainableOutputs []*StreamEdge
	ChainableOutputs    []*StreamEdge

	TimeCharacteristic  string
	StateBackend        StateBackend
	CheckpointingEnabled bool
	CheckpointingMode    CheckpointMode

	StatePartitioner1  StatePartitioner
	StatePartitioner2  StatePartitioner
	StateKeySerializer Serializer

	IterationBrokerID  string
	IterationTimeoutMS int64

	OperatorID JobVertexID

	ChainIndex int
	ChainStart bool
	ChainEnd   bool

	OperatorName string

	// Head-only fields.
	ChainedConfigs     map[int]*StreamConfig
	TransitiveOutEdges []*StreamEdge
	RawOutEdges        []*StreamEdge
	InEdges            []*JobEdge

	// ChainedOperatorIDs lists every member's primary operator id,
	// tail-first (deepest member first, head last): build records a
	// member's id only after recursing into its chainable children.
	ChainedOperatorIDs []JobVertexID

	// ChainedUserDefinedOperatorIDs parallels ChainedOperatorIDs in the
	// same tail-first order, with each member's first legacy hash,
	// sparse: a member with no legacy hasher configured contributes no
	// entry rather than a zero id.
	ChainedUserDefinedOperatorIDs []JobVertexID
}

// NewStreamConfig returns an empty stream config ready for population.
func NewStreamConfig() *StreamConfig {
	return &StreamConfig{SideOutputSerializers: make(map[string]Serializer)}
}

// JobVertex is a chain's materialized execution vertex.
type JobVertex struct {
	ID        JobVertexID
	LegacyIDs []JobVertexID

	Name string

	MinResources       ResourceSpec
	PreferredResources ResourceSpec

	InvokableClass string
	Parallelism    int
	MaxParallelism int

	Kind        JobVertexKind
	InputFormat InputFormat

	NumInputs int

	SlotSharingGroup *SlotSharingGroup
	CoLocationGroup  *CoLocationGroup

	Config *StreamConfig
}

// JobEdge links an upstream job vertex to a downstream one.
type JobEdge struct {
	Source *JobVertex
	Target *JobVertex

	Distribution        DistributionPattern
	ResultPartitionType ResultPartitionType
	ShipStrategy        string
}

// RetentionPolicy governs what happens to externalized checkpoints.
type RetentionPolicy int

const (
	RetentionNeverRetain RetentionPolicy = iota
	RetentionOnFailure
	RetentionOnCancellation
)

func (r RetentionPolicy) String() string {
	switch r {
	case RetentionNeverRetain:
		return "NEVER_RETAIN"
	case RetentionOnFailure:
		return "RETAIN_ON_FAILURE"
	case RetentionOnCancellation:
		return "RETAIN_ON_CANCELLATION"
	default:
		return "UNKNOWN"
	}
}

// CheckpointingSettings is the assembled checkpoint coordination
// descriptor attached to the job graph.
type CheckpointingSettings struct {
	IntervalMS                int64
	ExactlyOnce               bool
	FailOnCheckpointingErrors bool

	TriggerVertices []JobVertexID
	AckVertices     []JobVertexID
	CommitVertices  []JobVertexID

	RetentionPolicy RetentionPolicy

	MasterHooksBlob  []byte
	StateBackendBlob []byte
}

// JobGraph is the compiled output consumed by the runtime.
type JobGraph struct {
	JobID       JobVertexID
	JobName     string
	ScheduleMode string

	Vertices []*JobVertex
	Edges    []*JobEdge

	ExecutionConfigBlob []byte
	UserArtifacts       []string

	Checkpointing *CheckpointingSettings
}
