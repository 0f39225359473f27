// Package criteria defines the filter algebra emitted by the predicate
// translator. Criteria are immutable values; the combinators in this package
// are the only way compound criteria are built and they keep every tree in
// canonical form (flattened, constant-absorbed, deduplicated).
package criteria

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

// Criteria represents a node in the filter algebra. Every node has a stable
// name used as its JSON object key on serialization.
type Criteria interface {
	Name() string
	criteria()
}

// TermCriteria matches documents whose field holds exactly the given value.
type TermCriteria struct {
	Field  string
	Value  interface{}
	Member *expr.Member
}

func (*TermCriteria) Name() string { return "term" }
func (*TermCriteria) criteria()    {}

// NewTerm builds a single-value term criteria.
func NewTerm(field string, member *expr.Member, value interface{}) (*TermCriteria, error) {
	if field == "" {
		return nil, qerrors.Argumentf("term requires a field name")
	}
	return &TermCriteria{Field: field, Value: value, Member: member}, nil
}

// TermsExecutionMode hints to the search engine how a set-membership
// predicate should be evaluated.
type TermsExecutionMode string

const (
	// ExecutionPlain is the engine default and is omitted on serialization.
	ExecutionPlain TermsExecutionMode = "plain"
	ExecutionBool  TermsExecutionMode = "bool"
	ExecutionAnd   TermsExecutionMode = "and"
	ExecutionOr    TermsExecutionMode = "or"
)

// orCombinable reports whether the mode admits disjunction, i.e. whether two
// terms criteria over the same field may be collapsed inside an Or.
func (m TermsExecutionMode) orCombinable() bool {
	switch m {
	case ExecutionPlain, ExecutionBool, ExecutionOr, "":
		return true
	}
	return false
}

// TermsCriteria matches documents whose field holds any (or, depending on the
// execution mode, all) of the given values.
type TermsCriteria struct {
	Field     string
	Values    []interface{}
	Execution TermsExecutionMode
	Member    *expr.Member
}

func (*TermsCriteria) Name() string { return "terms" }
func (*TermsCriteria) criteria()    {}

// Terms builds the canonical criteria for a value set: distinct values keep
// their first-seen order, a single value degenerates to a term and an empty
// set can never match.
func Terms(field string, member *expr.Member, mode TermsExecutionMode, values ...interface{}) Criteria {
	distinct := make([]interface{}, 0, len(values))
	seen := make(map[interface{}]struct{}, len(values))
	for _, v := range values {
		if v != nil && reflect.TypeOf(v).Comparable() {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
		}
		distinct = append(distinct, v)
	}

	switch len(distinct) {
	case 0:
		return False
	case 1:
		return &TermCriteria{Field: field, Value: distinct[0], Member: member}
	}
	return &TermsCriteria{Field: field, Values: distinct, Execution: mode, Member: member}
}

// RangeComparison identifies one endpoint of a range criteria. The values
// double as the serialized comparison keys.
type RangeComparison string

const (
	RangeLess           RangeComparison = "lt"
	RangeLessOrEqual    RangeComparison = "lte"
	RangeGreater        RangeComparison = "gt"
	RangeGreaterOrEqual RangeComparison = "gte"
)

// RangeSpec is a single comparison endpoint.
type RangeSpec struct {
	Comparison RangeComparison
	Value      interface{}
}

// RangeCriteria matches documents whose field falls inside the bounds given
// by the specs. A criteria holds at most one spec per comparison.
type RangeCriteria struct {
	Field  string
	Specs  []RangeSpec
	Member *expr.Member
}

func (*RangeCriteria) Name() string { return "range" }
func (*RangeCriteria) criteria()    {}

// NewRange builds a range criteria with a single endpoint.
func NewRange(field string, member *expr.Member, cmp RangeComparison, value interface{}) (*RangeCriteria, error) {
	if field == "" {
		return nil, qerrors.Argumentf("range requires a field name")
	}
	return &RangeCriteria{Field: field, Specs: []RangeSpec{{Comparison: cmp, Value: value}}, Member: member}, nil
}

// MissingCriteria matches documents that have no value for the field.
type MissingCriteria struct {
	Field string
}

func (*MissingCriteria) Name() string { return "missing" }
func (*MissingCriteria) criteria()    {}

// ExistsCriteria matches documents that have any value for the field.
type ExistsCriteria struct {
	Field string
}

func (*ExistsCriteria) Name() string { return "exists" }
func (*ExistsCriteria) criteria()    {}

// PrefixCriteria matches documents whose field starts with the given prefix.
type PrefixCriteria struct {
	Field  string
	Prefix string
}

func (*PrefixCriteria) Name() string { return "prefix" }
func (*PrefixCriteria) criteria()    {}

// RegexpCriteria matches documents whose field matches the given pattern.
type RegexpCriteria struct {
	Field   string
	Pattern string
}

func (*RegexpCriteria) Name() string { return "regexp" }
func (*RegexpCriteria) criteria()    {}

// ConstantCriteria is the sentinel criteria for predicates that folded to a
// boolean constant. Only the interned True and False instances exist.
type ConstantCriteria struct {
	value bool
}

func (*ConstantCriteria) Name() string { return "constant" }
func (*ConstantCriteria) criteria()    {}

// IsTrue reports whether this is the True sentinel.
func (c *ConstantCriteria) IsTrue() bool { return c.value }

// Interned constant criteria shared by all translations.
var (
	True  = &ConstantCriteria{value: true}
	False = &ConstantCriteria{value: false}
)

// Equal reports structural equality of two criteria trees. Compound criteria
// compare children in order.
func Equal(a, b Criteria) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}
