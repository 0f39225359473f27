package translate

import (
	"strings"

	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

// spine unwraps a member access chain to its root, collecting members in
// document order (root first). Conversions are transparent and the synthetic
// nullable Value accessor unwraps to its target. ok is false when the
// expression is not a pure member chain.
func spine(e expr.Expression) (members []expr.Member, root expr.Expression, ok bool) {
	for {
		switch n := e.(type) {
		case *expr.UnaryExpr:
			if n.Op != expr.OpConvert && n.Op != expr.OpQuote {
				return nil, nil, false
			}
			e = n.Operand
		case *expr.MemberExpr:
			if n.Member.Name != expr.MemberValue {
				members = append([]expr.Member{n.Member}, members...)
			}
			e = n.Target
		default:
			return members, e, len(members) > 0
		}
	}
}

// fieldOf resolves a member chain rooted at the bound parameter to its dotted
// field path, delegating per-segment naming to the mapping. The leaf member
// is returned for value formatting. A mapping-provided segment beginning with
// an underscore is absolute and replaces the path collected so far.
func (t *translator) fieldOf(e expr.Expression) (string, *expr.Member, error) {
	members, root, ok := spine(e)
	if !ok {
		return "", nil, qerrors.Unsupportedf("%s is not a member chain", expr.Print(e))
	}
	if root != t.param {
		return "", nil, qerrors.Unsupportedf("member chain %s is not rooted at the predicate parameter", expr.Print(e))
	}

	segments := make([]string, 0, len(members)+1)
	if t.prefix != "" {
		segments = append(segments, t.prefix)
	}
	for _, m := range members {
		name := t.mapping.FieldName(m)
		if strings.HasPrefix(name, "_") {
			segments = segments[:0]
		}
		segments = append(segments, name)
	}

	leaf := members[len(members)-1]
	return strings.Join(segments, "."), &leaf, nil
}

// memberSide classifies one side of a comparison. ok reports whether the
// expression is a member chain; a chain rooted anywhere but the bound
// parameter is a translation error.
func (t *translator) memberSide(e expr.Expression) (field string, member *expr.Member, ok bool, err error) {
	_, root, chain := spine(e)
	if !chain {
		return "", nil, false, nil
	}
	if root != t.param {
		return "", nil, false, qerrors.Unsupportedf("member chain %s is not rooted at the predicate parameter", expr.Print(e))
	}
	field, member, err = t.fieldOf(e)
	if err != nil {
		return "", nil, false, err
	}
	return field, member, true, nil
}
