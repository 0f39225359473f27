// Package observability provides OpenTelemetry-based instrumentation for the
// query translator.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/go-esquery"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/go-esquery"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	AttrDocumentType = "esquery.document_type"
	AttrCacheHit     = "esquery.cache_hit"
	AttrErrorKind    = "esquery.error_kind"
)

// DocumentTypeAttr builds the document type attribute.
func DocumentTypeAttr(docType string) attribute.KeyValue {
	return attribute.String(AttrDocumentType, docType)
}

// CacheHitAttr builds the cache hit attribute.
func CacheHitAttr(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// ErrorKindAttr builds the error kind attribute.
func ErrorKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}
