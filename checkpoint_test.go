package planc

import (
	"math"
	"testing"
)

func buildCheckpointGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph("checkpointed")
	g.AddNode(newLinearNode(1, "Source", 1, ChainHead))
	g.AddNode(newLinearNode(2, "Sink", 1, ChainAlways))
	g.AddEdge(forwardEdge(1, 2))
	g.CheckpointConfig = CheckpointConfig{
		Enabled:    true,
		IntervalMS: 1000,
		Mode:       CheckpointModeExactlyOnce,
	}
	return g
}

func TestCheckpointExternalizedRetention(t *testing.T) {
	g := buildCheckpointGraph(t)
	g.CheckpointConfig.Externalized = true
	g.CheckpointConfig.Cleanup = CleanupDeleteOnCancel

	jg, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	cp := jg.Checkpointing
	if cp.RetentionPolicy != RetentionOnFailure {
		t.Errorf("expected RETAIN_ON_FAILURE, got %s", cp.RetentionPolicy)
	}
	if cp.IntervalMS != 1000 {
		t.Errorf("expected interval 1000, got %d", cp.IntervalMS)
	}
	if len(cp.TriggerVertices) != 1 || cp.TriggerVertices[0] != jg.Vertices[0].ID {
		t.Errorf("expected trigger vertices to be exactly the input vertex, got %v", cp.TriggerVertices)
	}
	if len(cp.AckVertices) != len(jg.Vertices) || len(cp.CommitVertices) != len(jg.Vertices) {
		t.Errorf("expected ack/commit to cover every vertex")
	}
}

func TestCheckpointDisabledIntervalIsMax(t *testing.T) {
	g := buildCheckpointGraph(t)
	g.CheckpointConfig.IntervalMS = 0

	jg, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if jg.Checkpointing.IntervalMS != math.MaxInt64 {
		t.Errorf("expected disabled interval to be MaxInt64, got %d", jg.Checkpointing.IntervalMS)
	}
}

func TestCheckpointInvalidModeFails(t *testing.T) {
	g := buildCheckpointGraph(t)
	g.CheckpointConfig.Mode = CheckpointModeUnset

	_, err := Compile(g)
	if err == nil {
		t.Fatal("expected an error for an unset checkpoint mode")
	}
}

func TestCheckpointExternalizedUnsetCleanupFails(t *testing.T) {
	g := buildCheckpointGraph(t)
	g.CheckpointConfig.Externalized = true

	_, err := Compile(g)
	if err == nil {
		t.Fatal("expected an error for externalized checkpoints with cleanup unset")
	}
}

func TestCheckpointNeverRetainWhenNotExternalized(t *testing.T) {
	g := buildCheckpointGraph(t)

	jg, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if jg.Checkpointing.RetentionPolicy != RetentionNeverRetain {
		t.Errorf("expected NEVER_RETAIN, got %s", jg.Checkpointing.RetentionPolicy)
	}
}

func TestCheckpointMasterHooksCollectedAndSerialized(t *testing.T) {
	g := buildCheckpointGraph(t)
	g.Node(1).Operator = &stubHookOperator{factory: &stubHookFactory{payload: []byte(`"hook-a"`)}}

	jg, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(jg.Checkpointing.MasterHooksBlob) == 0 {
		t.Error("expected a non-empty master hooks blob when a node declares the capability")
	}
}

func TestCheckpointNoHooksYieldsNilBlob(t *testing.T) {
	g := buildCheckpointGraph(t)

	jg, err := Compile(g)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if jg.Checkpointing.MasterHooksBlob != nil {
		t.Error("expected a nil master hooks blob when no node declares the capability")
	}
}

func TestCheckpointStateBackendSerializationFailure(t *testing.T) {
	g := buildCheckpointGraph(t)
	g.StateBackend = &stubStateBackend{name: "broken", failErr: errBackend}

	_, err := Compile(g)
	if err == nil {
		t.Fatal("expected an error when the state backend fails to serialize")
	}
}

var errBackend = errStub("backend serialization failed")

type errStub string

func (e errStub) Error() string { return string(e) }
