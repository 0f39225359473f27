package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with translator-specific span
// creation methods.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

// StartTranslate starts a span for a predicate translation.
func (t *Tracer) StartTranslate(ctx context.Context, docType string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "esquery.translate", trace.WithAttributes(
		DocumentTypeAttr(docType),
	))
}

// EndTranslate finishes a translation span, recording the outcome.
func (t *Tracer) EndTranslate(span trace.Span, cacheHit bool, err error) {
	span.SetAttributes(CacheHitAttr(cacheHit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// AddAttributes sets extra attributes on the current span.
func (t *Tracer) AddAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}
