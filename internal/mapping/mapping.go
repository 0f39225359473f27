// Package mapping defines how record members translate to search index
// fields and how runtime values become the JSON scalars the index holds.
package mapping

import (
	"reflect"
	"strings"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
)

// Mapping is the pluggable capability set consumed by the translator.
// Implementations must be safe for concurrent use; translator calls are
// arbitrarily interleaved.
type Mapping interface {
	// FieldName returns the index field name for a single member segment.
	// A name beginning with an underscore is absolute: it replaces the whole
	// member path (used for index metadata fields such as _id).
	FieldName(m expr.Member) string

	// DocumentType derives the index document type name for a record type.
	DocumentType(t reflect.Type) string

	// Prefix returns the path inserted before the member chain when the
	// record lives nested inside a wrapper document, or "" for none.
	Prefix(t reflect.Type) string

	// FormatValue converts a runtime value to the canonical JSON scalar for
	// the given member.
	FormatValue(m expr.Member, value interface{}) (interface{}, error)

	// TypeSelection returns an additional criteria AND-ed at the root to
	// restrict results to documents of the intended record type, or nil.
	TypeSelection(docType string) criteria.Criteria
}

// DocumentMeta is the sentinel type whose members resolve to index metadata
// fields. Records may embed it to query by _id or _score.
type DocumentMeta struct {
	ID    string
	Score float64
	Index string
}

var documentMetaType = reflect.TypeOf(DocumentMeta{})

// fieldTag is the parsed form of an `es:"..."` struct tag.
type fieldTag struct {
	name        string
	notAnalyzed bool
}

func parseFieldTag(tag reflect.StructTag) fieldTag {
	raw, ok := tag.Lookup("es")
	if !ok || raw == "" {
		return fieldTag{}
	}
	parts := strings.Split(raw, ",")
	ft := fieldTag{name: strings.TrimSpace(parts[0])}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "not_analyzed" {
			ft.notAnalyzed = true
		}
	}
	return ft
}

// NotAnalyzed reports whether the member is tagged as not analyzed, meaning
// its string values are indexed verbatim and must not be lower-cased.
func NotAnalyzed(m expr.Member) bool {
	return parseFieldTag(m.Tag).notAnalyzed
}
