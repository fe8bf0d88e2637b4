package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "unitman"

// StartUnitSpan traces a single unit lifecycle operation (start, stop, restart).
func StartUnitSpan(ctx context.Context, unitName, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	attrs = append(attrs,
		attribute.String("unit.name", unitName),
		attribute.String("unit.operation", operation),
	)
	return tracer.Start(ctx, "unit."+operation, trace.WithAttributes(attrs...))
}

// StartProbeSpan traces a single probe evaluation cycle.
func StartProbeSpan(ctx context.Context, unitName, probeKind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	attrs = append(attrs,
		attribute.String("probe.unit", unitName),
		attribute.String("probe.kind", probeKind),
	)
	return tracer.Start(ctx, "probe.evaluate", trace.WithAttributes(attrs...))
}

// StartControlPlaneSpan traces one control-plane request dispatch.
func StartControlPlaneSpan(ctx context.Context, method, requestID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	attrs = append(attrs,
		attribute.String("control_plane.method", method),
		attribute.String("control_plane.request_id", requestID),
	)
	return tracer.Start(ctx, "control_plane."+method, trace.WithAttributes(attrs...))
}

// RecordError records an error on the span.
func RecordError(span trace.Span, err error, description string) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, trace.WithAttributes(
		attribute.String("error.description", description),
	))
	span.SetStatus(codes.Error, description)
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds an event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetAttributes sets additional attributes on the span.
func SetAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}
