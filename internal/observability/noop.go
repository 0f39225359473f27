package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{tracer: tracenoop.NewTracerProvider().Tracer("")}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// The noop meter never returns errors, so they are discarded.
	m.translateDuration, _ = meter.Float64Histogram("esquery.translate.duration") //nolint:errcheck
	m.translateCount, _ = meter.Int64Counter("esquery.translate.count")           //nolint:errcheck
	m.cacheHitCount, _ = meter.Int64Counter("esquery.cache.hits")                 //nolint:errcheck
	m.errorCount, _ = meter.Int64Counter("esquery.error.count")                   //nolint:errcheck

	return m
}
