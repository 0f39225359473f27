package mapping

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
)

// MetaFieldsMapping intercepts the virtual members of DocumentMeta and
// resolves them to index metadata fields before delegating to the inner
// mapping. The returned names are absolute: the translator drops the member
// path accumulated so far when it sees them.
type MetaFieldsMapping struct {
	Inner Mapping
}

// NewMetaFieldsMapping decorates a mapping with DocumentMeta resolution.
func NewMetaFieldsMapping(inner Mapping) *MetaFieldsMapping {
	return &MetaFieldsMapping{Inner: inner}
}

func (m *MetaFieldsMapping) FieldName(member expr.Member) string {
	if member.Declaring == documentMetaType {
		switch member.Name {
		case "ID":
			return "_id"
		case "Score":
			return "_score"
		case "Index":
			return "_index"
		}
	}
	return m.Inner.FieldName(member)
}

func (m *MetaFieldsMapping) DocumentType(t reflect.Type) string { return m.Inner.DocumentType(t) }
func (m *MetaFieldsMapping) Prefix(t reflect.Type) string       { return m.Inner.Prefix(t) }

func (m *MetaFieldsMapping) FormatValue(member expr.Member, value interface{}) (interface{}, error) {
	return m.Inner.FormatValue(member, value)
}

func (m *MetaFieldsMapping) TypeSelection(docType string) criteria.Criteria {
	return m.Inner.TypeSelection(docType)
}

// WrappedDocumentMapping maps records that live nested inside a wrapper
// document: member paths gain a prefix and a type-selection criteria
// restricts results to wrapped documents. With a TypeField configured the
// selection is a term on the document type; otherwise it is an existence
// check on the wrapper's id field.
type WrappedDocumentMapping struct {
	Inner Mapping

	// PathPrefix is inserted before every member chain, "doc" by default.
	PathPrefix string

	// TypeField, when set, selects documents by a term on this field holding
	// the document type name.
	TypeField string
}

// NewWrappedDocumentMapping decorates a mapping for wrapper documents with
// the conventional "doc" prefix.
func NewWrappedDocumentMapping(inner Mapping) *WrappedDocumentMapping {
	return &WrappedDocumentMapping{Inner: inner, PathPrefix: "doc"}
}

func (m *WrappedDocumentMapping) FieldName(member expr.Member) string {
	return m.Inner.FieldName(member)
}

func (m *WrappedDocumentMapping) DocumentType(t reflect.Type) string {
	return m.Inner.DocumentType(t)
}

func (m *WrappedDocumentMapping) Prefix(reflect.Type) string {
	return m.PathPrefix
}

func (m *WrappedDocumentMapping) FormatValue(member expr.Member, value interface{}) (interface{}, error) {
	return m.Inner.FormatValue(member, value)
}

func (m *WrappedDocumentMapping) TypeSelection(docType string) criteria.Criteria {
	if m.TypeField != "" {
		return &criteria.TermCriteria{Field: m.TypeField, Value: docType}
	}
	field := "id"
	if m.PathPrefix != "" {
		field = m.PathPrefix + ".id"
	}
	return &criteria.ExistsCriteria{Field: field}
}
