package mapping

import (
	"reflect"
	"strings"

	"golang.org/x/text/language"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
)

// EnumFormat selects how enum values appear in the emitted document.
type EnumFormat int

const (
	// EnumFormatInteger emits the underlying integer value.
	EnumFormatInteger EnumFormat = iota
	// EnumFormatString emits the symbolic name; undefined values are a
	// translation error.
	EnumFormatString
)

// Enum is implemented by integer-backed constant types that expose their
// symbolic names. The second return value is false when the value is not
// defined on the type.
type Enum interface {
	EnumName() (string, bool)
}

// DefaultMapping is the convention-based mapping: camel-cased member names,
// pluralized camel-cased document type names, analyzed strings lower-cased
// under a configurable culture. Struct tag overrides win over conventions.
type DefaultMapping struct {
	culture    language.Tag
	enumFormat EnumFormat
}

// Option configures a DefaultMapping.
type Option func(*DefaultMapping)

// WithCulture sets the culture used when lower-casing analyzed string values.
func WithCulture(tag language.Tag) Option {
	return func(m *DefaultMapping) {
		m.culture = tag
	}
}

// WithEnumFormat selects integer or symbolic-name enum formatting.
func WithEnumFormat(f EnumFormat) Option {
	return func(m *DefaultMapping) {
		m.enumFormat = f
	}
}

// NewDefaultMapping creates the convention-based mapping.
func NewDefaultMapping(opts ...Option) *DefaultMapping {
	m := &DefaultMapping{culture: language.Und}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FieldName maps a member to its index field name: the tag override when
// present, the camel-cased member name otherwise.
func (m *DefaultMapping) FieldName(member expr.Member) string {
	if tag := parseFieldTag(member.Tag); tag.name != "" {
		return tag.name
	}
	return toCamelCase(member.Name)
}

// DocumentType derives the document type name for a record type,
// conventionally the pluralized camel-cased type name.
func (m *DefaultMapping) DocumentType(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return pluralize(toCamelCase(t.Name()))
}

// Prefix returns no prefix: default documents are not nested in a wrapper.
func (m *DefaultMapping) Prefix(reflect.Type) string { return "" }

// TypeSelection returns nil: default documents need no type restriction.
func (m *DefaultMapping) TypeSelection(string) criteria.Criteria { return nil }

// toCamelCase lowers the leading uppercase run of a Go member name, leaving
// the last capital alone when it starts a new word ("InvoicePrice" becomes
// "invoicePrice", "IPAddress" becomes "ipAddress", "ID" becomes "id").
func toCamelCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	upper := 0
	for upper < len(runes) && runes[upper] >= 'A' && runes[upper] <= 'Z' {
		upper++
	}
	if upper == 0 {
		return s
	}
	if upper < len(runes) && upper > 1 {
		// Keep the capital that starts the next word.
		upper--
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i, r := range runes {
		if i < upper {
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// pluralize applies the naive English pluralization rules used for document
// type names.
func pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"),
		strings.HasSuffix(s, "z"), strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	}
	return s + "s"
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
