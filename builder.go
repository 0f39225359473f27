package esquery

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/expr"
)

// Expression constructors re-exported for hosts that assemble predicate
// trees directly. A typical predicate reads:
//
//	r := esquery.Param("r", reflect.TypeOf(Robot{}))
//	pred := esquery.Lambda(r, esquery.Eq(esquery.MustField(r, "Name"), esquery.Const("Marvin")))

// Param creates the bound parameter for a record type.
func Param(name string, t reflect.Type) *expr.ParameterExpr { return expr.Param(name, t) }

// Const creates a constant expression from a runtime value.
func Const(v interface{}) *expr.ConstantExpr { return expr.Const(v) }

// Null creates an untyped nil constant.
func Null() *expr.ConstantExpr { return expr.Null() }

// Field resolves a member chain on target by name.
func Field(target Expression, names ...string) (*expr.MemberExpr, error) {
	return expr.Field(target, names...)
}

// MustField is like Field but panics on resolution failure.
func MustField(target Expression, names ...string) *expr.MemberExpr {
	return expr.MustField(target, names...)
}

// HasValue creates the nullable HasValue accessor on a pointer-typed chain.
func HasValue(target Expression) *expr.MemberExpr { return expr.HasValue(target) }

// ValueOf creates the nullable Value accessor, unwrapping a pointer-typed chain.
func ValueOf(target Expression) *expr.MemberExpr { return expr.ValueOf(target) }

// Comparison and logical constructors.

func Eq(left, right Expression) *expr.BinaryExpr      { return expr.Eq(left, right) }
func Ne(left, right Expression) *expr.BinaryExpr      { return expr.Ne(left, right) }
func Lt(left, right Expression) *expr.BinaryExpr      { return expr.Lt(left, right) }
func Le(left, right Expression) *expr.BinaryExpr      { return expr.Le(left, right) }
func Gt(left, right Expression) *expr.BinaryExpr      { return expr.Gt(left, right) }
func Ge(left, right Expression) *expr.BinaryExpr      { return expr.Ge(left, right) }
func AndAlso(left, right Expression) *expr.BinaryExpr { return expr.AndAlso(left, right) }
func OrElse(left, right Expression) *expr.BinaryExpr  { return expr.OrElse(left, right) }

// Not negates a boolean expression.
func Not(operand Expression) *expr.UnaryExpr { return expr.Not(operand) }

// Convert casts an expression to another static type.
func Convert(operand Expression, t reflect.Type) *expr.UnaryExpr { return expr.Convert(operand, t) }

// Lambda creates a predicate lambda over a single bound parameter.
func Lambda(param *expr.ParameterExpr, body Expression) *LambdaExpr {
	return expr.Lambda(param, body)
}

// Method call constructors for the recognized identities.

// Contains creates the membership test collection.Contains(item).
func Contains(collection, item Expression) *expr.CallExpr { return expr.Contains(collection, item) }

// ContainsStatic creates the static membership test Contains(collection, item).
func ContainsStatic(collection, item Expression) *expr.CallExpr {
	return expr.ContainsStatic(collection, item)
}

// EqualsCall creates the static equality call Equals(x, y).
func EqualsCall(x, y Expression) *expr.CallExpr { return expr.EqualsCall(x, y) }

// ContainsAny matches documents whose field holds at least one of the values.
func ContainsAny(field, values Expression) *expr.CallExpr { return expr.ContainsAny(field, values) }

// ContainsAll matches documents whose field holds every one of the values.
func ContainsAll(field, values Expression) *expr.CallExpr { return expr.ContainsAll(field, values) }

// Regexp matches a field against a constant regular expression pattern.
func Regexp(field, pattern Expression) *expr.CallExpr { return expr.Regexp(field, pattern) }

// Prefix matches a field against a constant prefix.
func Prefix(field, prefix Expression) *expr.CallExpr { return expr.Prefix(field, prefix) }

// StringCall creates a string method call such as s.Contains(sub). String
// scans have no filter equivalent and translate to ErrUnsupported.
func StringCall(name string, receiver Expression, args ...Expression) *expr.CallExpr {
	return expr.StringCall(name, receiver, args...)
}
