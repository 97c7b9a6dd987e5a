package trace

import (
	"context"
	"testing"
)

func TestNullEmitter_NoOp(t *testing.T) {
	t.Run("emits events without error", func(t *testing.T) {
		emitter := NewNullEmitter()

		events := []Event{
			{CompileID: "c1", Phase: "hash", NodeID: 1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_start"},
			{CompileID: "c1", Phase: "hash", NodeID: 1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_end"},
			{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: 1, EdgeTo: 2, Msg: "connect"},
		}
		for _, event := range events {
			emitter.Emit(event)
		}
	})

	t.Run("EmitBatch and Flush are no-ops", func(t *testing.T) {
		emitter := NewNullEmitter()
		if err := emitter.EmitBatch(context.Background(), []Event{{Msg: "x"}}); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		if err := emitter.Flush(context.Background()); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})
}

func TestNullEmitter_InterfaceContract(t *testing.T) {
	var _ Emitter = NewNullEmitter()
}
