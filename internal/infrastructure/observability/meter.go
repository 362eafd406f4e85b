package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTel instruments mirror the Prometheus series that matter for OTLP backends.
// They bind to the global meter provider, so Setup may run after first use.
var (
	instrumentsOnce    sync.Once
	advisoryDuration   metric.Float64Histogram
	sessionTransitions metric.Int64Counter
)

func instruments() {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(tracerName)

		var err error
		advisoryDuration, err = meter.Float64Histogram("aura.advisory.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Advisory call latency by operation and outcome"),
		)
		if err != nil {
			otel.Handle(err)
		}

		sessionTransitions, err = meter.Int64Counter("aura.session.transitions",
			metric.WithDescription("Session state machine transitions"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

// RecordAdvisoryDuration records one advisory call on the OTel histogram.
func RecordAdvisoryDuration(ctx context.Context, operation, outcome string, elapsed time.Duration) {
	instruments()
	if advisoryDuration == nil {
		return
	}
	advisoryDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("advisory.operation", operation),
		attribute.String("advisory.outcome", outcome),
	))
}

func countTransition(ctx context.Context, from, to string) {
	instruments()
	if sessionTransitions == nil {
		return
	}
	sessionTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session.from", from),
		attribute.String("session.to", to),
	))
}
