// Command planc compiles a stream graph into a job graph and prints a
// summary of the result.
//
// Given no arguments it builds a small three-operator example graph in
// code; given a path it decodes a JSON stream-graph fixture instead. The
// core compiler package takes no flags itself — configuration lives here,
// at the edge, the way the teacher repository keeps its examples/*/main.go
// flag-using and its library flag-free.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/streamplan/planc"
	"github.com/streamplan/planc/planstore"
	"github.com/streamplan/planc/trace"
)

func main() {
	jobIDHex := flag.String("job-id", "", "hex-encoded 16-byte job id to attach verbatim instead of deriving one")
	cachePath := flag.String("cache", "", "path to a SQLite file used as a resubmission cache")
	flag.Parse()

	var g *planc.Graph
	var err error
	if flag.NArg() > 0 {
		g, err = loadFixture(flag.Arg(0))
	} else {
		g = exampleGraph()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "planc:", err)
		os.Exit(1)
	}

	opts := planc.CompileOptions{
		Emitter: trace.NewLogEmitter(os.Stdout, false),
	}
	if *jobIDHex != "" {
		id, err := decodeJobID(*jobIDHex)
		if err != nil {
			fmt.Fprintln(os.Stderr, "planc:", err)
			os.Exit(1)
		}
		opts.JobID = &id
	}

	jg, err := planc.CompileWithOptions(g, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "planc: compile failed:", err)
		os.Exit(1)
	}

	fmt.Printf("job %x: %d vertices, %d edges, retention=%s\n",
		jg.JobID, len(jg.Vertices), len(jg.Edges), jg.Checkpointing.RetentionPolicy)

	if *cachePath != "" {
		if err := cachePlan(*cachePath, jg); err != nil {
			fmt.Fprintln(os.Stderr, "planc: cache:", err)
			os.Exit(1)
		}
	}
}

func decodeJobID(hexStr string) (planc.JobVertexID, error) {
	var id planc.JobVertexID
	decoded, err := hex.DecodeString(hexStr)
	if err != nil || len(decoded) != len(id) {
		return id, fmt.Errorf("invalid -job-id %q: must be 32 hex characters", hexStr)
	}
	copy(id[:], decoded)
	return id, nil
}

// cacheSummary is the payload planc stores in planstore: a small,
// plain-struct projection of the job graph, since the full JobGraph
// carries opaque operator/serializer interfaces that do not round-trip
// through JSON.
type cacheSummary struct {
	JobID           string `json:"jobID"`
	JobName         string `json:"jobName"`
	VertexCount     int    `json:"vertexCount"`
	EdgeCount       int    `json:"edgeCount"`
	RetentionPolicy string `json:"retentionPolicy"`
}

func cachePlan(path string, jg *planc.JobGraph) error {
	store, err := planstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	payload, err := json.Marshal(cacheSummary{
		JobID:           fmt.Sprintf("%x", jg.JobID),
		JobName:         jg.JobName,
		VertexCount:     len(jg.Vertices),
		EdgeCount:       len(jg.Edges),
		RetentionPolicy: jg.Checkpointing.RetentionPolicy.String(),
	})
	if err != nil {
		return err
	}

	return store.Put(context.Background(), &planstore.JobGraphSnapshot{
		Key:         planstore.PlanKey(jg.JobID),
		VertexCount: len(jg.Vertices),
		EdgeCount:   len(jg.Edges),
		Payload:     payload,
	})
}

// exampleGraph builds a three-operator "Source -> Map -> Sink" chain: linear,
// forward-connected, equal parallelism, fully fused into one job vertex.
func exampleGraph() *planc.Graph {
	g := planc.NewGraph("example")
	g.AddNode(&planc.StreamNode{ID: 1, OperatorName: "Source", Parallelism: 2, MaxParallelism: 128, ChainingStrategy: planc.ChainHead})
	g.AddNode(&planc.StreamNode{ID: 2, OperatorName: "Map", Parallelism: 2, MaxParallelism: 128, ChainingStrategy: planc.ChainAlways})
	g.AddNode(&planc.StreamNode{ID: 3, OperatorName: "Sink", Parallelism: 2, MaxParallelism: 128, ChainingStrategy: planc.ChainAlways})
	g.AddEdge(&planc.StreamEdge{SourceID: 1, TargetID: 2, Partitioner: planc.Partitioner{Kind: planc.PartitionForward}})
	g.AddEdge(&planc.StreamEdge{SourceID: 2, TargetID: 3, Partitioner: planc.Partitioner{Kind: planc.PartitionForward}})
	g.CheckpointConfig = planc.CheckpointConfig{Mode: planc.CheckpointModeAtLeastOnce}
	return g
}

type fixtureNode struct {
	ID               int    `json:"id"`
	OperatorName     string `json:"operator"`
	Parallelism      int    `json:"parallelism"`
	MaxParallelism   int    `json:"maxParallelism"`
	ChainingStrategy string `json:"chainingStrategy"`
	SlotSharingGroup string `json:"slotSharingGroup"`
	CoLocationGroup  string `json:"coLocationGroup"`
	InvokableClass   string `json:"invokableClass"`
}

type fixtureEdge struct {
	Source      int    `json:"source"`
	Target      int    `json:"target"`
	Partitioner string `json:"partitioner"`
}

type fixture struct {
	JobName string        `json:"jobName"`
	Nodes   []fixtureNode `json:"nodes"`
	Edges   []fixtureEdge `json:"edges"`
}

func loadFixture(path string) (*planc.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	g := planc.NewGraph(fx.JobName)
	for _, n := range fx.Nodes {
		g.AddNode(&planc.StreamNode{
			ID:               n.ID,
			OperatorName:     n.OperatorName,
			Parallelism:      n.Parallelism,
			MaxParallelism:   n.MaxParallelism,
			ChainingStrategy: parseChainingStrategy(n.ChainingStrategy),
			SlotSharingGroup: n.SlotSharingGroup,
			CoLocationGroup:  n.CoLocationGroup,
			InvokableClass:   n.InvokableClass,
		})
	}
	for _, e := range fx.Edges {
		g.AddEdge(&planc.StreamEdge{
			SourceID:    e.Source,
			TargetID:    e.Target,
			Partitioner: parsePartitioner(e.Partitioner),
		})
	}
	g.CheckpointConfig = planc.CheckpointConfig{Mode: planc.CheckpointModeAtLeastOnce}
	return g, nil
}

func parseChainingStrategy(s string) planc.ChainingStrategy {
	switch s {
	case "HEAD":
		return planc.ChainHead
	case "NEVER":
		return planc.ChainNever
	default:
		return planc.ChainAlways
	}
}

func parsePartitioner(name string) planc.Partitioner {
	switch name {
	case "RESCALE":
		return planc.Partitioner{Kind: planc.PartitionRescale}
	case "BROADCAST":
		return planc.Partitioner{Kind: planc.PartitionBroadcast}
	case "REBALANCE":
		return planc.Partitioner{Kind: planc.PartitionRebalance}
	case "KEY_GROUP":
		return planc.Partitioner{Kind: planc.PartitionKeyGroup}
	case "":
		return planc.Partitioner{Kind: planc.PartitionForward}
	default:
		return planc.Partitioner{Kind: planc.PartitionCustom, DisplayName: name}
	}
}
