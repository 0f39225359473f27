package translate

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

// constValue extracts the runtime value of a constant operand. ok is false
// for non-constant expressions.
func constValue(e expr.Expression) (interface{}, bool) {
	e = stripOuter(e)
	c, ok := e.(*expr.ConstantExpr)
	if !ok {
		return nil, false
	}
	return c.Value, true
}

// isNullValue reports whether a constant value represents null: a nil
// interface or a nil pointer (a nullable with no value).
func isNullValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}

func (t *translator) translateEquality(op expr.BinaryOp, left, right expr.Expression) (criteria.Criteria, error) {
	// A boolean constant against any boolean-valued sub-expression rewrites
	// into the sub-expression itself or its negation.
	if v, ok := constValue(right); ok {
		if b, isBool := v.(bool); isBool {
			if _, leftConst := constValue(left); !leftConst {
				return t.translateBoolTest(op, left, b)
			}
		}
	}
	if v, ok := constValue(left); ok {
		if b, isBool := v.(bool); isBool {
			if _, rightConst := constValue(right); !rightConst {
				return t.translateBoolTest(op, right, b)
			}
		}
	}

	// Normalize the member side onto the left.
	field, member, ok, err := t.memberSide(left)
	if err != nil {
		return nil, err
	}
	if !ok {
		left, right = right, left
		field, member, ok, err = t.memberSide(left)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, qerrors.Unsupportedf("equality %s has no member chain rooted at the predicate parameter",
			expr.Print(&expr.BinaryExpr{Op: op, Left: left, Right: right}))
	}

	value, isConst := constValue(right)
	if !isConst {
		return nil, qerrors.Unsupportedf("equality against non-constant %s", expr.Print(right))
	}

	if isNullValue(value) {
		if op == expr.OpEqual {
			return &criteria.MissingCriteria{Field: field}, nil
		}
		return &criteria.ExistsCriteria{Field: field}, nil
	}

	formatted, err := t.mapping.FormatValue(*member, value)
	if err != nil {
		return nil, err
	}
	term, err := criteria.NewTerm(field, member, formatted)
	if err != nil {
		return nil, err
	}
	if op == expr.OpNotEqual {
		return criteria.Not(term), nil
	}
	return term, nil
}

// translateBoolTest rewrites expr == true / expr != false into the
// translated expression and expr == false / expr != true into its negation.
func (t *translator) translateBoolTest(op expr.BinaryOp, e expr.Expression, b bool) (criteria.Criteria, error) {
	c, err := t.translate(e)
	if err != nil {
		return nil, err
	}
	if (op == expr.OpEqual) == b {
		return c, nil
	}
	return criteria.Not(c), nil
}

var rangeComparisons = map[expr.BinaryOp]criteria.RangeComparison{
	expr.OpLessThan:           criteria.RangeLess,
	expr.OpLessThanOrEqual:    criteria.RangeLessOrEqual,
	expr.OpGreaterThan:        criteria.RangeGreater,
	expr.OpGreaterThanOrEqual: criteria.RangeGreaterOrEqual,
}

// invertedRangeComparisons maps the operator seen when the constant appears
// on the left: c < m reads as m > c.
var invertedRangeComparisons = map[expr.BinaryOp]criteria.RangeComparison{
	expr.OpLessThan:           criteria.RangeGreater,
	expr.OpLessThanOrEqual:    criteria.RangeGreaterOrEqual,
	expr.OpGreaterThan:        criteria.RangeLess,
	expr.OpGreaterThanOrEqual: criteria.RangeLessOrEqual,
}

func (t *translator) translateRange(op expr.BinaryOp, left, right expr.Expression) (criteria.Criteria, error) {
	field, member, ok, err := t.memberSide(left)
	if err != nil {
		return nil, err
	}
	cmp := rangeComparisons[op]
	valueSide := right

	if !ok {
		field, member, ok, err = t.memberSide(right)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, qerrors.Unsupportedf("comparison %s has no member chain rooted at the predicate parameter",
				expr.Print(&expr.BinaryExpr{Op: op, Left: left, Right: right}))
		}
		cmp = invertedRangeComparisons[op]
		valueSide = left
	}

	value, isConst := constValue(valueSide)
	if !isConst {
		return nil, qerrors.Unsupportedf("comparison against non-constant %s", expr.Print(valueSide))
	}
	if isNullValue(value) {
		return nil, qerrors.Unsupportedf("range comparison of %s against null", field)
	}

	formatted, err := t.mapping.FormatValue(*member, value)
	if err != nil {
		return nil, err
	}
	return criteria.NewRange(field, member, cmp, formatted)
}
