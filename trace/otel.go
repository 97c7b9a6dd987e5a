package trace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelTrace "go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by mapping each compiler phase onto an
// OpenTelemetry span and each edge connection onto a span event within the
// currently open phase span.
//
// Lifecycle:
//   - Msg == "phase_start" opens a span named event.Phase.
//   - Msg == "phase_end" closes that span.
//   - Any other event (e.g. "connect") is recorded as a span event on the
//     open span for its Phase, or as a standalone zero-duration span if no
//     phase span is open.
type OTelEmitter struct {
	tracer otelTrace.Tracer

	mu    sync.Mutex
	spans map[string]otelTrace.Span // Phase -> open span
}

// NewOTelEmitter creates an OTelEmitter using tracer.
func NewOTelEmitter(tracer otelTrace.Tracer) *OTelEmitter {
	return &OTelEmitter{
		tracer: tracer,
		spans:  make(map[string]otelTrace.Span),
	}
}

// Emit records event as a phase span, a span event, or a standalone span.
func (o *OTelEmitter) Emit(event Event) {
	switch event.Msg {
	case "phase_start":
		o.startPhase(event)
	case "phase_end":
		o.endPhase(event)
	default:
		o.recordEvent(context.Background(), event)
	}
}

func (o *OTelEmitter) startPhase(event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, open := o.spans[event.Phase]; open {
		return
	}
	_, span := o.tracer.Start(context.Background(), event.Phase)
	addStandardAttributes(span, event)
	o.spans[event.Phase] = span
}

func (o *OTelEmitter) endPhase(event Event) {
	o.mu.Lock()
	span, open := o.spans[event.Phase]
	if open {
		delete(o.spans, event.Phase)
	}
	o.mu.Unlock()

	if !open {
		return
	}
	addMetadataAttributes(span, event.Meta)
	setErrorStatus(span, event.Meta)
	span.End()
}

// recordEvent adds event as a span event on the open span for its phase,
// falling back to a standalone zero-duration span if none is open.
func (o *OTelEmitter) recordEvent(ctx context.Context, event Event) {
	o.mu.Lock()
	span, open := o.spans[event.Phase]
	o.mu.Unlock()

	if open {
		opts := []otelTrace.EventOption{otelTrace.WithAttributes(eventAttributes(event)...)}
		span.AddEvent(event.Msg, opts...)
		return
	}

	_, standalone := o.tracer.Start(ctx, event.Msg)
	addStandardAttributes(standalone, event)
	addMetadataAttributes(standalone, event.Meta)
	setErrorStatus(standalone, event.Meta)
	standalone.End()
}

// EmitBatch records every event in order.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		switch event.Msg {
		case "phase_start":
			o.startPhase(event)
		case "phase_end":
			o.endPhase(event)
		default:
			o.recordEvent(ctx, event)
		}
	}
	return nil
}

// Flush closes any phase spans left open and force-flushes the tracer
// provider if it supports it.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	o.mu.Lock()
	for phase, span := range o.spans {
		span.End()
		delete(o.spans, phase)
	}
	o.mu.Unlock()

	tp := otel.GetTracerProvider()
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

func addStandardAttributes(span otelTrace.Span, event Event) {
	attrs := []attribute.KeyValue{
		attribute.String("planc.compile_id", event.CompileID),
		attribute.String("planc.phase", event.Phase),
	}
	if event.NodeID >= 0 {
		attrs = append(attrs, attribute.Int("planc.node_id", event.NodeID))
	}
	if event.EdgeFrom >= 0 && event.EdgeTo >= 0 {
		attrs = append(attrs,
			attribute.Int("planc.edge_from", event.EdgeFrom),
			attribute.Int("planc.edge_to", event.EdgeTo),
		)
	}
	span.SetAttributes(attrs...)
}

func eventAttributes(event Event) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if event.NodeID >= 0 {
		attrs = append(attrs, attribute.Int("planc.node_id", event.NodeID))
	}
	if event.EdgeFrom >= 0 && event.EdgeTo >= 0 {
		attrs = append(attrs,
			attribute.Int("planc.edge_from", event.EdgeFrom),
			attribute.Int("planc.edge_to", event.EdgeTo),
		)
	}
	for key, value := range event.Meta {
		attrs = append(attrs, metaAttribute(key, value))
	}
	return attrs
}

func addMetadataAttributes(span otelTrace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		span.SetAttributes(metaAttribute(key, value))
	}
}

func metaAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case time.Duration:
		return attribute.Int64(key, int64(v/time.Millisecond))
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

func setErrorStatus(span otelTrace.Span, meta map[string]interface{}) {
	if errMsg, ok := meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}
