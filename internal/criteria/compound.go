package criteria

import (
	"github.com/nlstn/go-esquery/internal/expr"
)

// NotCriteria inverts its inner criteria.
type NotCriteria struct {
	Inner Criteria
}

func (*NotCriteria) Name() string { return "not" }
func (*NotCriteria) criteria()    {}

// AndCriteria requires all children to match. Child order is preserved.
type AndCriteria struct {
	Children []Criteria
}

func (*AndCriteria) Name() string { return "and" }
func (*AndCriteria) criteria()    {}

// OrCriteria requires at least one child to match. Child order is preserved.
type OrCriteria struct {
	Children []Criteria
}

func (*OrCriteria) Name() string { return "or" }
func (*OrCriteria) criteria()    {}

// Not builds the negation of a criteria in canonical form: double negations
// unwrap, constants invert and missing/exists flip into each other.
func Not(inner Criteria) Criteria {
	switch n := inner.(type) {
	case nil:
		return nil
	case *ConstantCriteria:
		if n.value {
			return False
		}
		return True
	case *NotCriteria:
		return n.Inner
	case *MissingCriteria:
		return &ExistsCriteria{Field: n.Field}
	case *ExistsCriteria:
		return &MissingCriteria{Field: n.Field}
	}
	return &NotCriteria{Inner: inner}
}

// And combines criteria into a conjunction in canonical form: nested
// conjunctions flatten, True children drop, a False child absorbs the whole
// conjunction, duplicates collapse and ranges over the same field merge into
// a single criteria with tightened bounds.
func And(cs ...Criteria) Criteria {
	flat := make([]Criteria, 0, len(cs))
	for _, c := range cs {
		flat = appendFlattened(flat, c, func(c Criteria) []Criteria {
			if a, ok := c.(*AndCriteria); ok {
				return a.Children
			}
			return nil
		})
	}

	out := make([]Criteria, 0, len(flat))
	for _, c := range flat {
		if k, ok := c.(*ConstantCriteria); ok {
			if !k.value {
				return False
			}
			continue
		}
		if !containsEqual(out, c) {
			out = append(out, c)
		}
	}

	out = mergeRanges(out)

	switch len(out) {
	case 0:
		return True
	case 1:
		return out[0]
	}
	return &AndCriteria{Children: out}
}

// Or combines criteria into a disjunction in canonical form: nested
// disjunctions flatten, False children drop, a True child absorbs the whole
// disjunction, duplicates collapse and or-combinable terms over the same
// field coalesce into one criteria holding the union of their values.
func Or(cs ...Criteria) Criteria {
	flat := make([]Criteria, 0, len(cs))
	for _, c := range cs {
		flat = appendFlattened(flat, c, func(c Criteria) []Criteria {
			if o, ok := c.(*OrCriteria); ok {
				return o.Children
			}
			return nil
		})
	}

	out := make([]Criteria, 0, len(flat))
	for _, c := range flat {
		if k, ok := c.(*ConstantCriteria); ok {
			if k.value {
				return True
			}
			continue
		}
		if !containsEqual(out, c) {
			out = append(out, c)
		}
	}

	out = coalesceTerms(out)

	switch len(out) {
	case 0:
		return False
	case 1:
		return out[0]
	}
	return &OrCriteria{Children: out}
}

func appendFlattened(dst []Criteria, c Criteria, children func(Criteria) []Criteria) []Criteria {
	if c == nil {
		return dst
	}
	if nested := children(c); nested != nil {
		for _, child := range nested {
			dst = appendFlattened(dst, child, children)
		}
		return dst
	}
	return append(dst, c)
}

func containsEqual(cs []Criteria, c Criteria) bool {
	for _, existing := range cs {
		if Equal(existing, c) {
			return true
		}
	}
	return false
}

// mergeRanges collapses range criteria over the same field into a single
// criteria at the position of the first occurrence. Specs with the same
// comparison tighten: upper bounds keep the smaller value, lower bounds the
// larger.
func mergeRanges(cs []Criteria) []Criteria {
	byField := make(map[string]*RangeCriteria)
	out := make([]Criteria, 0, len(cs))
	for _, c := range cs {
		r, ok := c.(*RangeCriteria)
		if !ok {
			out = append(out, c)
			continue
		}
		if existing, seen := byField[r.Field]; seen {
			existing.Specs = mergeSpecs(existing.Specs, r.Specs)
			continue
		}
		merged := &RangeCriteria{Field: r.Field, Specs: append([]RangeSpec(nil), r.Specs...), Member: r.Member}
		byField[r.Field] = merged
		out = append(out, merged)
	}
	return out
}

func mergeSpecs(existing, add []RangeSpec) []RangeSpec {
	for _, spec := range add {
		idx := -1
		for i, e := range existing {
			if e.Comparison == spec.Comparison {
				idx = i
				break
			}
		}
		if idx < 0 {
			existing = append(existing, spec)
			continue
		}
		if tighter(spec.Comparison, spec.Value, existing[idx].Value) {
			existing[idx] = spec
		}
	}
	return existing
}

// tighter reports whether candidate narrows the bound relative to current.
// Incomparable values leave the current bound in place.
func tighter(cmp RangeComparison, candidate, current interface{}) bool {
	order, err := expr.CompareConstants(candidate, current)
	if err != nil {
		return false
	}
	switch cmp {
	case RangeLess, RangeLessOrEqual:
		return order < 0
	case RangeGreater, RangeGreaterOrEqual:
		return order > 0
	}
	return false
}

// termsGroup accumulates the or-combinable term criteria for one field.
type termsGroup struct {
	member *expr.Member
	modes  []TermsExecutionMode
	values []interface{}
	count  int
}

func (g *termsGroup) mode() TermsExecutionMode {
	mode := g.modes[0]
	for _, m := range g.modes[1:] {
		if m != mode {
			return ExecutionPlain
		}
	}
	return mode
}

// combinableField returns the field of a term or or-combinable terms
// criteria; ok is false for every other criteria.
func combinableField(c Criteria) (string, bool) {
	switch t := c.(type) {
	case *TermCriteria:
		return t.Field, true
	case *TermsCriteria:
		return t.Field, t.Execution.orCombinable()
	}
	return "", false
}

// coalesceTerms collapses term and or-combinable terms criteria over the same
// field into one criteria holding the union of their values, placed at the
// first occurrence. Terms whose execution mode requires conjunction are left
// untouched.
func coalesceTerms(cs []Criteria) []Criteria {
	groups := make(map[string]*termsGroup)
	for _, c := range cs {
		field, ok := combinableField(c)
		if !ok {
			continue
		}
		g := groups[field]
		if g == nil {
			g = &termsGroup{}
			groups[field] = g
		}
		switch t := c.(type) {
		case *TermCriteria:
			if g.member == nil {
				g.member = t.Member
			}
			g.modes = append(g.modes, ExecutionPlain)
			g.values = append(g.values, t.Value)
		case *TermsCriteria:
			if g.member == nil {
				g.member = t.Member
			}
			g.modes = append(g.modes, t.Execution)
			g.values = append(g.values, t.Values...)
		}
		g.count++
	}

	multi := false
	for _, g := range groups {
		if g.count > 1 {
			multi = true
			break
		}
	}
	if !multi {
		return cs
	}

	emitted := make(map[string]bool, len(groups))
	out := make([]Criteria, 0, len(cs))
	for _, c := range cs {
		field, ok := combinableField(c)
		if !ok {
			out = append(out, c)
			continue
		}
		g := groups[field]
		if g.count == 1 {
			out = append(out, c)
			continue
		}
		if emitted[field] {
			continue
		}
		emitted[field] = true
		out = append(out, Terms(field, g.member, g.mode(), g.values...))
	}
	return out
}
