// Package esquery translates strongly-typed predicate expression trees into
// Elasticsearch search request documents. A predicate is a lambda over a
// record type built from the expression constructors in this package; the
// translator partially evaluates closed-over values, recognizes the
// comparison, membership and null-test patterns of the predicate and emits a
// canonical criteria tree wrapped in a search request.
package esquery

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/mapping"
	"github.com/nlstn/go-esquery/internal/observability"
	"github.com/nlstn/go-esquery/internal/translate"
)

// Criteria is a node in the filter algebra emitted by the translator.
type Criteria = criteria.Criteria

// SearchRequest is the assembled search request document.
type SearchRequest = translate.SearchRequest

// Mapping defines how record members translate to index fields and how
// runtime values become JSON scalars.
type Mapping = mapping.Mapping

// Expression is a node in the predicate expression tree.
type Expression = expr.Expression

// LambdaExpr is a predicate lambda over a single record parameter.
type LambdaExpr = expr.LambdaExpr

// DocumentMeta is the sentinel type whose members resolve to index metadata
// fields such as _id and _score.
type DocumentMeta = mapping.DocumentMeta

// Enum is implemented by integer-backed constant types that expose their
// symbolic names to the value formatter.
type Enum = mapping.Enum

// Translator converts predicates for one mapping, with optional logging,
// tracing, metrics and request caching. A Translator is safe for concurrent
// use.
type Translator struct {
	mapping mapping.Mapping
	logger  *slog.Logger
	tracer  *observability.Tracer
	metrics *observability.Metrics
	cache   *requestCache
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for debug-level translation messages.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithTracerProvider enables tracing of translations.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Translator) {
		t.tracer = observability.NewTracer(tp)
	}
}

// WithMeterProvider enables translation metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(t *Translator) {
		t.metrics = observability.NewMetrics(mp)
	}
}

// WithCacheSize bounds the translation cache. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.cache = newRequestCache(n)
		} else {
			t.cache = nil
		}
	}
}

// defaultCacheSize bounds the request cache when no explicit size is given.
const defaultCacheSize = 256

// NewTranslator creates a Translator over the given mapping.
func NewTranslator(m Mapping, opts ...Option) *Translator {
	t := &Translator{
		mapping: m,
		tracer:  observability.NewNoopTracer(),
		metrics: observability.NewNoopMetrics(),
		cache:   newRequestCache(defaultCacheSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate converts a predicate lambda into a search request. Identical
// predicates over the same mapping are served from the request cache.
func (t *Translator) Translate(ctx context.Context, lambda *LambdaExpr) (*SearchRequest, error) {
	docType := ""
	if lambda != nil && len(lambda.Params) == 1 {
		docType = t.mapping.DocumentType(lambda.Params[0].Type)
	}

	_, span := t.tracer.StartTranslate(ctx, docType)
	start := time.Now()

	var key uint64
	if t.cache != nil && lambda != nil {
		key = cacheKey(docType, lambda)
		if req, ok := t.cache.get(key); ok {
			t.tracer.EndTranslate(span, true, nil)
			t.metrics.RecordTranslation(ctx, docType, true, time.Since(start), nil)
			if t.logger != nil {
				t.logger.Debug("translation served from cache", "docType", docType)
			}
			return req, nil
		}
	}

	req, err := translate.Translate(t.mapping, lambda)
	t.tracer.EndTranslate(span, false, err)
	t.metrics.RecordTranslation(ctx, docType, false, time.Since(start), err)
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("translation failed", "docType", docType, "error", err)
		}
		return nil, err
	}

	if t.cache != nil {
		t.cache.put(key, req)
	}
	if t.logger != nil {
		t.logger.Debug("translated predicate", "docType", docType, "predicate", expr.Print(lambda.Body))
	}
	return req, nil
}

// Translate converts a predicate lambda into a search request without
// caching or instrumentation. Equivalent to NewTranslator(m).Translate with
// all options off.
func Translate(m Mapping, lambda *LambdaExpr) (*SearchRequest, error) {
	return translate.Translate(m, lambda)
}
