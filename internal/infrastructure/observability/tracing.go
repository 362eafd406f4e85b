package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "aura-server"
)

// GetTracer returns the tracer for the aura-server service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartAdvisorySpan starts a client span for one advisory call.
func StartAdvisorySpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "advisory."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("advisory.operation", operation)),
	)
}

// StartStoreSpan starts a span for a document store operation.
func StartStoreSpan(ctx context.Context, backend, operation, key string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "store."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("store.backend", backend),
			attribute.String("store.key", key),
		),
	)
}

// AddStatusTransition adds a session state transition event to the span in ctx and counts it.
func AddStatusTransition(ctx context.Context, fromStatus, toStatus string) {
	countTransition(ctx, fromStatus, toStatus)
	trace.SpanFromContext(ctx).AddEvent("session.transition",
		trace.WithAttributes(
			attribute.String("session.from", fromStatus),
			attribute.String("session.to", toStatus),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
