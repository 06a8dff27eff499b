package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultLibraryName names the tracer and the log bridge when nothing is configured.
const DefaultLibraryName = "payments-engine"

// Tracer returns a tracer from the global provider. An empty name selects
// DefaultLibraryName.
//
//nolint:ireturn
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = DefaultLibraryName
	}

	return otel.Tracer(name)
}

// HandleSpanError sets the status of the span to error and records the error.
func HandleSpanError(span trace.Span, message string, err error) {
	if span != nil && err != nil {
		span.SetStatus(codes.Error, message+": "+err.Error())
		span.RecordError(err)
	}
}

// HandleSpanEvent adds an event to the span.
func HandleSpanEvent(span trace.Span, eventName string, attributes ...attribute.KeyValue) {
	if span != nil {
		span.AddEvent(eventName, trace.WithAttributes(attributes...))
	}
}

// GetTraceIDFromContext returns the trace id carried by ctx, or "" when
// there is none.
func GetTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}

	return sc.TraceID().String()
}
