package trace

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOTelEmitter_PhaseSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{CompileID: "c1", Phase: "chain", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_start"})
	emitter.Emit(Event{CompileID: "c1", Phase: "chain", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_end", Meta: map[string]interface{}{"chain_count": 3}})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "chain" {
		t.Errorf("span name = %q, want %q", span.Name, "chain")
	}
	if !span.EndTime.After(span.StartTime) {
		t.Error("phase span was not ended")
	}

	attrs := attributeMap(span.Attributes)
	if got := attrs["planc.compile_id"]; got != "c1" {
		t.Errorf("compile_id = %v, want c1", got)
	}
	if got := attrs["chain_count"]; got != int64(3) {
		t.Errorf("chain_count = %v, want 3", got)
	}
}

func TestOTelEmitter_ConnectEventOnOpenPhase(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_start"})
	emitter.Emit(Event{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: 1, EdgeTo: 2, Msg: "connect", Meta: map[string]interface{}{"distribution": "POINTWISE"}})
	emitter.Emit(Event{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_end"})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 phase span, got %d", len(spans))
	}
	span := spans[0]
	if len(span.Events) != 1 {
		t.Fatalf("expected 1 span event, got %d", len(span.Events))
	}
	if span.Events[0].Name != "connect" {
		t.Errorf("span event name = %q, want connect", span.Events[0].Name)
	}
}

func TestOTelEmitter_StandaloneEventWithoutOpenPhase(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{CompileID: "c1", Phase: "connect", NodeID: -1, EdgeFrom: 1, EdgeTo: 2, Msg: "connect"})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 standalone span, got %d", len(spans))
	}
	if spans[0].Name != "connect" {
		t.Errorf("span name = %q, want connect", spans[0].Name)
	}
}

func TestOTelEmitter_ErrorStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{CompileID: "c1", Phase: "hash", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_start"})
	emitter.Emit(Event{CompileID: "c1", Phase: "hash", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_end", Meta: map[string]interface{}{"error": "duplicate hash"}})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Status.Code != codes.Error {
		t.Errorf("status code = %v, want Error", span.Status.Code)
	}
	if span.Status.Description != "duplicate hash" {
		t.Errorf("status description = %q, want %q", span.Status.Description, "duplicate hash")
	}
}

func TestOTelEmitter_EmitBatch(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	events := []Event{
		{CompileID: "c1", Phase: "placement", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_start"},
		{CompileID: "c1", Phase: "placement", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_end"},
	}
	if err := emitter.EmitBatch(context.Background(), events); err != nil {
		t.Fatalf("EmitBatch failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
}

func TestOTelEmitter_FlushClosesOpenPhases(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{CompileID: "c1", Phase: "checkpoint", NodeID: -1, EdgeFrom: -1, EdgeTo: -1, Msg: "phase_start"})

	if err := emitter.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected Flush to end the open phase span, got %d spans", len(spans))
	}
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{})
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}
