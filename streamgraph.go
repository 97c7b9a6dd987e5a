package planc

import "sort"

// ChainingStrategy controls whether an operator may be fused with its
// neighbors into a shared-thread chain.
type ChainingStrategy int

const (
	// ChainAlways lets the operator chain with both its predecessor and
	// its successor when the rest of the chainability predicate holds.
	ChainAlways ChainingStrategy = iota
	// ChainHead allows the operator to head a chain but never to be
	// fused into an upstream one.
	ChainHead
	// ChainNever forbids the operator from taking part in any chain.
	ChainNever
)

func (s ChainingStrategy) String() string {
	switch s {
	case ChainAlways:
		return "ALWAYS"
	case ChainHead:
		return "HEAD"
	case ChainNever:
		return "NEVER"
	default:
		return "UNKNOWN"
	}
}

// PartitionerKind names the shipping strategy attached to a stream edge.
type PartitionerKind int

const (
	PartitionForward PartitionerKind = iota
	PartitionRescale
	PartitionBroadcast
	PartitionRebalance
	PartitionKeyGroup
	PartitionCustom
)

// Partitioner is the tagged-variant discriminator the edge connector
// consults to choose a distribution pattern, plus the display name
// attached to the resulting job edge as its ship-strategy label.
type Partitioner struct {
	Kind PartitionerKind
	// DisplayName overrides the default name derived from Kind; used by
	// PartitionCustom and by hash/key partitioners that carry a
	// descriptive label (e.g. "hash(userId)").
	DisplayName string
}

func (p Partitioner) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	switch p.Kind {
	case PartitionForward:
		return "FORWARD"
	case PartitionRescale:
		return "RESCALE"
	case PartitionBroadcast:
		return "BROADCAST"
	case PartitionRebalance:
		return "REBALANCE"
	case PartitionKeyGroup:
		return "KEY_GROUP"
	case PartitionCustom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// Serializer is an opaque, named type serializer. The compiler never
// inspects its contents, only carries it through to the job graph.
type Serializer interface {
	Name() string
}

// StatePartitioner is an opaque key extractor attached to a stream node.
type StatePartitioner interface {
	Name() string
}

// ResourceSpec is a resource envelope requested by a single operator. A
// chain's resource spec is the member-wise sum of its operators' specs.
type ResourceSpec struct {
	CPUCores        float64
	HeapMemoryMB    int64
	ManagedMemoryMB int64
}

// Add returns the element-wise sum of r and o.
func (r ResourceSpec) Add(o ResourceSpec) ResourceSpec {
	return ResourceSpec{
		CPUCores:        r.CPUCores + o.CPUCores,
		HeapMemoryMB:    r.HeapMemoryMB + o.HeapMemoryMB,
		ManagedMemoryMB: r.ManagedMemoryMB + o.ManagedMemoryMB,
	}
}

// InputFormat marks a node as a source that reads from a declared input
// format, causing the chain builder to materialize an input-format
// vertex instead of a plain one.
type InputFormat interface {
	Name() string
}

// MasterTriggerHookProvider is implemented by operators whose
// user-defined function wants a say in the checkpoint master hook
// protocol. C7 collects a factory from every node whose operator
// implements it.
type MasterTriggerHookProvider interface {
	MasterTriggerHookFactory() MasterHookFactory
}

// MasterHookFactory must be eagerly serializable; a failure aborts
// compilation with ErrNonSerializableHook.
type MasterHookFactory interface {
	Serialize() ([]byte, error)
}

// StateBackend is the opaque, eagerly-serializable state backend
// reference carried by the graph and by every member's stream config.
type StateBackend interface {
	Name() string
	Serialize() ([]byte, error)
}

// StreamNode is one user operator in the input stream graph.
type StreamNode struct {
	ID int

	OperatorName string
	Operator     interface{}

	InputFormat InputFormat

	Parallelism    int // >=1, or -1 to inherit the graph default
	MaxParallelism int

	ChainingStrategy ChainingStrategy

	SlotSharingGroup string
	CoLocationGroup  string

	BufferTimeoutMS int64

	InputSerializer1 Serializer
	InputSerializer2 Serializer
	OutputSerializer Serializer

	// SideOutputSerializers maps a side-output tag to its serializer.
	SideOutputSerializers map[string]Serializer

	StatePartitioner1  StatePartitioner
	StatePartitioner2  StatePartitioner
	StateKeySerializer Serializer

	InvokableClass string

	MinResources       ResourceSpec
	PreferredResources ResourceSpec

	// IterationID, when non-empty, marks this node as a participant
	// (head or tail) in an iteration identified by that broker id.
	IterationID        string
	IterationTimeoutMS int64

	TimeCharacteristic string

	// UserHash, when non-nil, is the legacy hash override folded into
	// C1's digest ahead of the node's predecessor hashes.
	UserHash []byte
}

// SideOutputTag, when non-empty on a StreamEdge, names the side channel
// the edge reads from rather than the node's primary output.
type StreamEdge struct {
	SourceID int
	TargetID int

	Partitioner Partitioner

	SideOutputTag string

	// Position is this edge's order-stable index within its source
	// node's out-edge list.
	Position int
}

// IterationPair names an iteration's head and tail stream nodes. The
// edge from Sink back to Source is excluded from C1's hash-predecessor
// set and the pair is forced into a shared co-location group by C6.
type IterationPair struct {
	SourceID int
	SinkID   int
}

// CheckpointMode is the consistency mode requested for checkpointing.
type CheckpointMode int

const (
	CheckpointModeUnset CheckpointMode = iota
	CheckpointModeExactlyOnce
	CheckpointModeAtLeastOnce
)

// ExternalizedCleanup controls what happens to externalized checkpoints
// when a job is cancelled.
type ExternalizedCleanup int

const (
	CleanupUnset ExternalizedCleanup = iota
	CleanupDeleteOnCancel
	CleanupRetainOnCancellation
)

// CheckpointConfig is the graph-level checkpointing configuration read
// by C7.
type CheckpointConfig struct {
	Enabled                   bool
	IntervalMS                int64
	Mode                      CheckpointMode
	Externalized              bool
	Cleanup                   ExternalizedCleanup
	FailOnCheckpointingErrors bool
}

// ExecutionConfig is the opaque, eagerly-serializable execution
// configuration blob propagated to the job graph unchanged except for
// FailTaskOnCheckpointError, which C7 may set.
type ExecutionConfig struct {
	Values                     map[string]string
	FailTaskOnCheckpointError  bool
	ChainingEnabled            bool
}

// Serialize produces the execution-config blob attached to the job
// graph. A plain struct of strings and bools never fails to marshal;
// the error return exists because serialization is treated as fallible
// for arbitrary user-supplied configs in general.
func (c *ExecutionConfig) Serialize() ([]byte, error) {
	return marshalJSON(c)
}

// Graph is the read-only input stream graph. Construct with NewGraph and
// populate Nodes/Edges before calling Compile.
type Graph struct {
	JobName string

	Nodes map[int]*StreamNode
	Edges []*StreamEdge

	ChainingEnabled  bool
	ExecutionConfig  *ExecutionConfig
	CheckpointConfig CheckpointConfig
	StateBackend     StateBackend
	CachedFiles      []string

	IterationPairs []IterationPair

	outEdges map[int][]*StreamEdge
	inEdges  map[int][]*StreamEdge
	indexed  bool
}

// NewGraph returns an empty, ready-to-populate Graph.
func NewGraph(jobName string) *Graph {
	return &Graph{
		JobName:         jobName,
		Nodes:           make(map[int]*StreamNode),
		ChainingEnabled: true,
		ExecutionConfig: &ExecutionConfig{Values: make(map[string]string), ChainingEnabled: true},
	}
}

// AddNode registers a stream node. Node ids must be unique.
func (g *Graph) AddNode(n *StreamNode) {
	g.Nodes[n.ID] = n
	g.indexed = false
}

// AddEdge registers a stream edge, assigning it the next order-stable
// position within its source node's out-edge list.
func (g *Graph) AddEdge(e *StreamEdge) {
	e.Position = len(g.outEdgesUnindexed(e.SourceID))
	g.Edges = append(g.Edges, e)
	g.indexed = false
}

func (g *Graph) outEdgesUnindexed(nodeID int) []*StreamEdge {
	var out []*StreamEdge
	for _, e := range g.Edges {
		if e.SourceID == nodeID {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) ensureIndex() {
	if g.indexed {
		return
	}
	g.outEdges = make(map[int][]*StreamEdge)
	g.inEdges = make(map[int][]*StreamEdge)
	for _, e := range g.Edges {
		g.outEdges[e.SourceID] = append(g.outEdges[e.SourceID], e)
		g.inEdges[e.TargetID] = append(g.inEdges[e.TargetID], e)
	}
	g.indexed = true
}

// Node returns the stream node with the given id, or nil.
func (g *Graph) Node(id int) *StreamNode {
	return g.Nodes[id]
}

// OutEdges returns id's out-edges in source-edge order.
func (g *Graph) OutEdges(id int) []*StreamEdge {
	g.ensureIndex()
	return g.outEdges[id]
}

// InEdges returns id's in-edges in the order they were added to the
// graph.
func (g *Graph) InEdges(id int) []*StreamEdge {
	g.ensureIndex()
	return g.inEdges[id]
}

// Sources returns the ids of nodes with no incoming stream edges,
// ascending.
func (g *Graph) Sources() []int {
	g.ensureIndex()
	var sources []int
	for id := range g.Nodes {
		if len(g.inEdges[id]) == 0 {
			sources = append(sources, id)
		}
	}
	sort.Ints(sources)
	return sources
}

// SortedNodeIDs returns every node id, ascending.
func (g *Graph) SortedNodeIDs() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// isIterationBackEdge reports whether e is the edge from an iteration's
// tail back to its head, per the IterationPairs declared on the graph.
func (g *Graph) isIterationBackEdge(e *StreamEdge) bool {
	for _, p := range g.IterationPairs {
		if e.SourceID == p.SinkID && e.TargetID == p.SourceID {
			return true
		}
	}
	return false
}
