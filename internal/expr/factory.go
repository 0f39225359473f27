package expr

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/qerrors"
)

// Constructor helpers used by query builders and tests to assemble
// expression trees without spelling out the node structs.

// Param creates the bound parameter for a record type.
func Param(name string, t reflect.Type) *ParameterExpr {
	return &ParameterExpr{Name: name, Type: t}
}

// Const creates a constant expression whose static type is taken from the
// value itself.
func Const(v interface{}) *ConstantExpr {
	if v == nil {
		return &ConstantExpr{}
	}
	return &ConstantExpr{Value: v, Type: reflect.TypeOf(v)}
}

// Null creates an untyped nil constant.
func Null() *ConstantExpr {
	return &ConstantExpr{}
}

// StaticType returns the static type of an expression, or nil when the
// expression carries none (e.g. an untyped nil constant).
func StaticType(e Expression) reflect.Type {
	switch n := e.(type) {
	case *ConstantExpr:
		return n.Type
	case *ParameterExpr:
		return n.Type
	case *MemberExpr:
		return n.Member.Type
	case *UnaryExpr:
		if n.Type != nil {
			return n.Type
		}
		return StaticType(n.Operand)
	case *BinaryExpr:
		return StaticType(n.Left)
	case *CallExpr:
		return nil
	case *LambdaExpr:
		return nil
	}
	return nil
}

// Field resolves a member chain on target by name. Each name must be a struct
// field of the preceding segment's static type.
func Field(target Expression, names ...string) (*MemberExpr, error) {
	if len(names) == 0 {
		return nil, qerrors.Argumentf("field requires at least one member name")
	}
	cur := target
	for _, name := range names {
		t := StaticType(cur)
		if t == nil {
			return nil, qerrors.Argumentf("cannot resolve member %q: target has no static type", name)
		}
		m, ok := MemberOf(t, name)
		if !ok {
			return nil, qerrors.Argumentf("type %s has no member %q", t, name)
		}
		cur = &MemberExpr{Target: cur, Member: m}
	}
	return cur.(*MemberExpr), nil
}

// MustField is like Field but panics on resolution failure. Intended for
// statically known member chains.
func MustField(target Expression, names ...string) *MemberExpr {
	m, err := Field(target, names...)
	if err != nil {
		panic(err)
	}
	return m
}

// HasValue creates the synthetic nullable HasValue accessor on a
// pointer-typed member chain.
func HasValue(target Expression) *MemberExpr {
	return &MemberExpr{Target: target, Member: Member{
		Name:      MemberHasValue,
		Type:      reflect.TypeOf(false),
		Declaring: StaticType(target),
	}}
}

// ValueOf creates the synthetic nullable Value accessor, unwrapping a
// pointer-typed member chain to its element type.
func ValueOf(target Expression) *MemberExpr {
	t := StaticType(target)
	var elem reflect.Type
	if t != nil && t.Kind() == reflect.Ptr {
		elem = t.Elem()
	}
	return &MemberExpr{Target: target, Member: Member{
		Name:      MemberValue,
		Type:      elem,
		Declaring: t,
	}}
}

func binary(op BinaryOp, left, right Expression) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

// Comparison and logical helpers.

func Eq(left, right Expression) *BinaryExpr      { return binary(OpEqual, left, right) }
func Ne(left, right Expression) *BinaryExpr      { return binary(OpNotEqual, left, right) }
func Lt(left, right Expression) *BinaryExpr      { return binary(OpLessThan, left, right) }
func Le(left, right Expression) *BinaryExpr      { return binary(OpLessThanOrEqual, left, right) }
func Gt(left, right Expression) *BinaryExpr      { return binary(OpGreaterThan, left, right) }
func Ge(left, right Expression) *BinaryExpr      { return binary(OpGreaterThanOrEqual, left, right) }
func AndAlso(left, right Expression) *BinaryExpr { return binary(OpAndAlso, left, right) }
func OrElse(left, right Expression) *BinaryExpr  { return binary(OpOrElse, left, right) }
func Add(left, right Expression) *BinaryExpr     { return binary(OpAdd, left, right) }

// Not negates an expression.
func Not(operand Expression) *UnaryExpr {
	return &UnaryExpr{Op: OpNot, Operand: operand}
}

// Convert casts an expression to another static type.
func Convert(operand Expression, t reflect.Type) *UnaryExpr {
	return &UnaryExpr{Op: OpConvert, Operand: operand, Type: t}
}

// Quote wraps an expression the way quoted lambdas arrive from builders.
func Quote(operand Expression) *UnaryExpr {
	return &UnaryExpr{Op: OpQuote, Operand: operand}
}

// Negate produces the arithmetic negation of an expression.
func Negate(operand Expression) *UnaryExpr {
	return &UnaryExpr{Op: OpNegate, Operand: operand}
}

// Lambda creates a predicate lambda over a single bound parameter.
func Lambda(param *ParameterExpr, body Expression) *LambdaExpr {
	return &LambdaExpr{Params: []*ParameterExpr{param}, Body: body}
}

// Call creates a method call expression.
func Call(receiver Expression, method Method, args ...Expression) *CallExpr {
	return &CallExpr{Receiver: receiver, Method: method, Args: args}
}

// Well-known call helpers matching the method identities the translator
// recognizes.

// Contains creates the instance-form set membership call collection.Contains(item).
func Contains(collection, item Expression) *CallExpr {
	return Call(collection, Method{Declaring: DeclaringSlice, Name: "Contains", Arity: 1}, item)
}

// ContainsStatic creates the static-form set membership call Contains(collection, item).
func ContainsStatic(collection, item Expression) *CallExpr {
	return Call(nil, Method{Declaring: DeclaringSlice, Name: "Contains", Arity: 2}, collection, item)
}

// EqualsCall creates the static equality call Equals(x, y).
func EqualsCall(x, y Expression) *CallExpr {
	return Call(nil, Method{Declaring: DeclaringObject, Name: "Equals", Arity: 2}, x, y)
}

// EqualsMethod creates the instance equality call x.Equals(y).
func EqualsMethod(x, y Expression) *CallExpr {
	return Call(x, Method{Declaring: DeclaringObject, Name: "Equals", Arity: 1}, y)
}

// ContainsAny creates the domain helper call matching documents whose field
// holds at least one of the given values.
func ContainsAny(field, values Expression) *CallExpr {
	return Call(nil, Method{Declaring: DeclaringElastic, Name: "ContainsAny", Arity: 2}, field, values)
}

// ContainsAll creates the domain helper call matching documents whose field
// holds every one of the given values.
func ContainsAll(field, values Expression) *CallExpr {
	return Call(nil, Method{Declaring: DeclaringElastic, Name: "ContainsAll", Arity: 2}, field, values)
}

// Regexp creates the domain helper call matching a field against a regular
// expression pattern.
func Regexp(field, pattern Expression) *CallExpr {
	return Call(nil, Method{Declaring: DeclaringElastic, Name: "Regexp", Arity: 2}, field, pattern)
}

// Prefix creates the domain helper call matching a field against a prefix.
func Prefix(field, prefix Expression) *CallExpr {
	return Call(nil, Method{Declaring: DeclaringElastic, Name: "Prefix", Arity: 2}, field, prefix)
}

// StringCall creates a string method call such as s.Contains(sub). These are
// recognized only to be rejected with a precise error.
func StringCall(name string, receiver Expression, args ...Expression) *CallExpr {
	return Call(receiver, Method{Declaring: DeclaringString, Name: name, Arity: len(args)}, args...)
}
