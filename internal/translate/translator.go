// Package translate converts predicate expression trees into criteria and
// assembles them into search requests. Translation is pure: each call reads
// the expression and the mapping and produces an immutable criteria tree.
package translate

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/mapping"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

// Translate converts a boolean predicate lambda over a record type into a
// search request. The lambda's single parameter is the document record; its
// body is partially evaluated, translated to criteria and combined with the
// mapping's type-selection criteria.
func Translate(m mapping.Mapping, lambda *expr.LambdaExpr) (*SearchRequest, error) {
	if m == nil {
		return nil, qerrors.Argumentf("mapping must not be nil")
	}
	if lambda == nil {
		return nil, qerrors.Argumentf("predicate lambda must not be nil")
	}
	if len(lambda.Params) != 1 {
		return nil, qerrors.Argumentf("predicate lambda must have exactly one parameter, got %d", len(lambda.Params))
	}

	body, err := expr.PartialEval(lambda.Body)
	if err != nil {
		return nil, err
	}

	t := &translator{
		mapping: m,
		param:   lambda.Params[0],
		prefix:  m.Prefix(lambda.Params[0].Type),
	}
	c, err := t.translate(body)
	if err != nil {
		return nil, err
	}

	docType := m.DocumentType(t.param.Type)
	return assemble(m, docType, c), nil
}

type translator struct {
	mapping mapping.Mapping
	param   *expr.ParameterExpr
	prefix  string
}

// translate dispatches on the top node of a boolean-valued expression after
// stripping outer quotes and conversions.
func (t *translator) translate(e expr.Expression) (criteria.Criteria, error) {
	e = stripOuter(e)

	switch n := e.(type) {
	case *expr.ConstantExpr:
		if b, ok := n.Value.(bool); ok {
			if b {
				return criteria.True, nil
			}
			return criteria.False, nil
		}
		return nil, qerrors.Unsupportedf("constant %s is not a boolean predicate", expr.Print(n))

	case *expr.BinaryExpr:
		return t.translateBinary(n)

	case *expr.UnaryExpr:
		if n.Op == expr.OpNot {
			inner, err := t.translate(n.Operand)
			if err != nil {
				return nil, err
			}
			return criteria.Not(inner), nil
		}
		return nil, qerrors.Unsupportedf("%s", expr.Kind(n))

	case *expr.MemberExpr:
		return t.translateBooleanMember(n)

	case *expr.CallExpr:
		return t.translateCall(n)
	}

	return nil, qerrors.Unsupportedf("%s", expr.Kind(e))
}

func (t *translator) translateBinary(n *expr.BinaryExpr) (criteria.Criteria, error) {
	switch n.Op {
	case expr.OpAndAlso:
		left, err := t.translate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translate(n.Right)
		if err != nil {
			return nil, err
		}
		return criteria.And(left, right), nil

	case expr.OpOrElse:
		left, err := t.translate(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translate(n.Right)
		if err != nil {
			return nil, err
		}
		return criteria.Or(left, right), nil

	case expr.OpEqual, expr.OpNotEqual:
		return t.translateEquality(n.Op, n.Left, n.Right)

	case expr.OpLessThan, expr.OpLessThanOrEqual, expr.OpGreaterThan, expr.OpGreaterThanOrEqual:
		return t.translateRange(n.Op, n.Left, n.Right)
	}

	return nil, qerrors.Unsupportedf("binary operator %s in %s", n.Op, expr.Print(n))
}

// translateBooleanMember handles a bare member chain used as a predicate:
// the nullable HasValue accessor becomes an existence check and a
// boolean-typed member matches documents holding true.
func (t *translator) translateBooleanMember(n *expr.MemberExpr) (criteria.Criteria, error) {
	if n.Member.Name == expr.MemberHasValue {
		field, _, err := t.fieldOf(n.Target)
		if err != nil {
			return nil, err
		}
		return &criteria.ExistsCriteria{Field: field}, nil
	}

	if n.Member.Type == nil || n.Member.Type.Kind() != reflect.Bool {
		return nil, qerrors.Unsupportedf("member %s is not a boolean predicate", expr.Print(n))
	}
	field, member, err := t.fieldOf(n)
	if err != nil {
		return nil, err
	}
	value, err := t.mapping.FormatValue(*member, true)
	if err != nil {
		return nil, err
	}
	return criteria.NewTerm(field, member, value)
}

// stripOuter removes outer quoting and every outer conversion, whatever its
// target type: conversions are elided transparently.
func stripOuter(e expr.Expression) expr.Expression {
	for {
		u, ok := e.(*expr.UnaryExpr)
		if !ok {
			return e
		}
		switch u.Op {
		case expr.OpQuote:
			e = u.Operand
		case expr.OpConvert:
			e = u.Operand
		default:
			return e
		}
	}
}
