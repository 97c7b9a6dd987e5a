package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogEmitter_TextOutput(t *testing.T) {
	t.Run("emits event with all fields", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		event := Event{
			CompileID: "c1",
			Phase:     "chain",
			NodeID:    7,
			EdgeFrom:  -1,
			EdgeTo:    -1,
			Msg:       "phase_start",
			Meta:      map[string]interface{}{"key": "value"},
		}
		emitter.Emit(event)

		output := buf.String()
		if !strings.Contains(output, "phase=chain") {
			t.Errorf("expected output to contain phase=chain, got: %s", output)
		}
		if !strings.Contains(output, "node=7") {
			t.Errorf("expected output to contain node=7, got: %s", output)
		}
	})

	t.Run("emits multiple events", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: 1, EdgeTo: 2, Msg: "connect"})
		emitter.Emit(Event{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: 2, EdgeTo: 3, Msg: "connect"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines of output, got %d", len(lines))
		}
	})
}

func TestLogEmitter_JSONFormatting(t *testing.T) {
	t.Run("emits valid JSON when JSON mode enabled", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		event := Event{
			CompileID: "json-run-001",
			Phase:     "index",
			NodeID:    -1,
			EdgeFrom:  -1,
			EdgeTo:    -1,
			Msg:       "phase_end",
			Meta:      map[string]interface{}{"counter": 42, "status": "success"},
		}
		emitter.Emit(event)

		output := buf.String()
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(output), &parsed); err != nil {
			t.Fatalf("expected valid JSON, got error: %v\nOutput: %s", err, output)
		}

		if parsed["compileID"] != "json-run-001" {
			t.Errorf("expected compileID 'json-run-001', got %v", parsed["compileID"])
		}
		if parsed["phase"] != "index" {
			t.Errorf("expected phase 'index', got %v", parsed["phase"])
		}

		meta, ok := parsed["meta"].(map[string]interface{})
		if !ok {
			t.Fatal("expected meta to be a map")
		}
		if meta["counter"] != float64(42) {
			t.Errorf("expected counter 42, got %v", meta["counter"])
		}
	})

	t.Run("emits multiple JSON events on separate lines", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		emitter.Emit(Event{CompileID: "c1", Msg: "phase_start", NodeID: -1, EdgeFrom: -1, EdgeTo: -1})
		emitter.Emit(Event{CompileID: "c1", Msg: "phase_end", NodeID: -1, EdgeFrom: -1, EdgeTo: -1})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines of JSON, got %d", len(lines))
		}
		for i, line := range lines {
			var parsed map[string]interface{}
			if err := json.Unmarshal([]byte(line), &parsed); err != nil {
				t.Errorf("line %d: expected valid JSON, got error: %v", i, err)
			}
		}
	})
}

func TestLogEmitter_InterfaceContract(t *testing.T) {
	var buf bytes.Buffer
	var _ Emitter = NewLogEmitter(&buf, false)
}
