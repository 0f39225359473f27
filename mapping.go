package esquery

import (
	"golang.org/x/text/language"

	"github.com/nlstn/go-esquery/internal/mapping"
)

// EnumFormat selects how enum values appear in emitted documents.
type EnumFormat = mapping.EnumFormat

const (
	// EnumFormatInteger emits the underlying integer value.
	EnumFormatInteger = mapping.EnumFormatInteger
	// EnumFormatString emits the symbolic name.
	EnumFormatString = mapping.EnumFormatString
)

// MappingOption configures the default mapping.
type MappingOption = mapping.Option

// WithCulture sets the culture used when lower-casing analyzed string values.
func WithCulture(tag language.Tag) MappingOption {
	return mapping.WithCulture(tag)
}

// WithEnumFormat selects integer or symbolic-name enum formatting.
func WithEnumFormat(f EnumFormat) MappingOption {
	return mapping.WithEnumFormat(f)
}

// NewDefaultMapping creates the convention-based mapping: camel-cased member
// names with `es` tag overrides, pluralized document type names, analyzed
// strings lower-cased.
func NewDefaultMapping(opts ...MappingOption) Mapping {
	return mapping.NewDefaultMapping(opts...)
}

// NewMetaFieldsMapping decorates a mapping so DocumentMeta members resolve
// to index metadata fields (_id, _score, _index).
func NewMetaFieldsMapping(inner Mapping) Mapping {
	return mapping.NewMetaFieldsMapping(inner)
}

// NewWrappedDocumentMapping decorates a mapping for records nested inside a
// wrapper document: member paths gain the "doc" prefix and requests carry a
// type-selection filter. With a non-empty typeField the selection is a term
// on that field holding the document type name; otherwise it is an existence
// check on "doc.id".
func NewWrappedDocumentMapping(inner Mapping, typeField string) Mapping {
	m := mapping.NewWrappedDocumentMapping(inner)
	m.TypeField = typeField
	return m
}
