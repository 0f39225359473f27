package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the translator-specific metric instruments.
type Metrics struct {
	translateDuration metric.Float64Histogram
	translateCount    metric.Int64Counter
	cacheHitCount     metric.Int64Counter
	errorCount        metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Instrument creation only fails on invalid parameters; fall back to the
	// bare instrument so partial metrics keep working.
	var err error

	m.translateDuration, err = meter.Float64Histogram(
		"esquery.translate.duration",
		metric.WithDescription("Duration of predicate translations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.translateDuration, _ = meter.Float64Histogram("esquery.translate.duration")
	}

	m.translateCount, err = meter.Int64Counter(
		"esquery.translate.count",
		metric.WithDescription("Total number of predicate translations"),
		metric.WithUnit("{translation}"),
	)
	if err != nil {
		m.translateCount, _ = meter.Int64Counter("esquery.translate.count")
	}

	m.cacheHitCount, err = meter.Int64Counter(
		"esquery.cache.hits",
		metric.WithDescription("Translations served from the request cache"),
		metric.WithUnit("{translation}"),
	)
	if err != nil {
		m.cacheHitCount, _ = meter.Int64Counter("esquery.cache.hits")
	}

	m.errorCount, err = meter.Int64Counter(
		"esquery.error.count",
		metric.WithDescription("Total number of translation errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("esquery.error.count")
	}

	return m
}

// RecordTranslation records metrics for a completed translation.
func (m *Metrics) RecordTranslation(ctx context.Context, docType string, cacheHit bool, duration time.Duration, err error) {
	attrs := metric.WithAttributes(DocumentTypeAttr(docType), CacheHitAttr(cacheHit))
	m.translateCount.Add(ctx, 1, attrs)
	m.translateDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	if cacheHit {
		m.cacheHitCount.Add(ctx, 1, attrs)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, attrs)
	}
}
