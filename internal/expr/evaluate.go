package expr

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nlstn/go-esquery/internal/qerrors"
)

// PartialEval replaces every sub-expression that does not depend on a bound
// parameter with a constant carrying its evaluated value. Closed-over values,
// member reads on captured objects and pure method calls are all folded here
// so the translator only ever sees constants on the non-member side of a
// predicate. Evaluation failures are fatal and wrap ErrEvaluation.
func PartialEval(e Expression) (Expression, error) {
	out, _, err := partialEval(e)
	return out, err
}

func partialEval(e Expression) (result Expression, hasParam bool, err error) {
	switch n := e.(type) {
	case nil:
		return nil, false, nil

	case *ConstantExpr:
		return n, false, nil

	case *ParameterExpr:
		return n, true, nil

	case *LambdaExpr:
		body, _, err := partialEval(n.Body)
		if err != nil {
			return nil, false, err
		}
		if body == n.Body {
			return n, true, nil
		}
		return &LambdaExpr{Params: n.Params, Body: body}, true, nil

	case *MemberExpr:
		if n.Target == nil {
			// Static member access: always independent of the parameter.
			return foldConstant(n)
		}
		target, targetHasParam, err := partialEval(n.Target)
		if err != nil {
			return nil, false, err
		}
		if !targetHasParam {
			return foldConstant(&MemberExpr{Target: target, Member: n.Member})
		}
		if target == n.Target {
			return n, true, nil
		}
		return &MemberExpr{Target: target, Member: n.Member}, true, nil

	case *UnaryExpr:
		operand, operandHasParam, err := partialEval(n.Operand)
		if err != nil {
			return nil, false, err
		}
		// Quoted lambdas stay quoted; the translator strips the quote itself.
		if !operandHasParam && n.Op != OpQuote {
			return foldConstant(&UnaryExpr{Op: n.Op, Operand: operand, Type: n.Type})
		}
		if operand == n.Operand {
			return n, operandHasParam, nil
		}
		return &UnaryExpr{Op: n.Op, Operand: operand, Type: n.Type}, operandHasParam, nil

	case *BinaryExpr:
		left, leftHasParam, err := partialEval(n.Left)
		if err != nil {
			return nil, false, err
		}
		right, rightHasParam, err := partialEval(n.Right)
		if err != nil {
			return nil, false, err
		}
		if !leftHasParam && !rightHasParam {
			return foldConstant(&BinaryExpr{Op: n.Op, Left: left, Right: right})
		}
		if left == n.Left && right == n.Right {
			return n, true, nil
		}
		return &BinaryExpr{Op: n.Op, Left: left, Right: right}, true, nil

	case *CallExpr:
		anyParam := false
		receiver := n.Receiver
		if receiver != nil {
			var recvHasParam bool
			receiver, recvHasParam, err = partialEval(receiver)
			if err != nil {
				return nil, false, err
			}
			anyParam = anyParam || recvHasParam
		}
		args := make([]Expression, len(n.Args))
		changed := receiver != n.Receiver
		for i, a := range n.Args {
			arg, argHasParam, err := partialEval(a)
			if err != nil {
				return nil, false, err
			}
			args[i] = arg
			anyParam = anyParam || argHasParam
			changed = changed || arg != a
		}
		if !anyParam && receiver != nil {
			return foldConstant(&CallExpr{Receiver: receiver, Method: n.Method, Args: args})
		}
		// Static call identities have no runtime evaluator; they stay in the
		// tree for the translator's method table. Reporting them as
		// parameter-dependent keeps enclosing nodes from folding through
		// them.
		if !changed {
			return n, true, nil
		}
		return &CallExpr{Receiver: receiver, Method: n.Method, Args: args}, true, nil
	}
	return nil, false, qerrors.Evaluationf("unknown node %s", Kind(e))
}

func foldConstant(e Expression) (Expression, bool, error) {
	v, err := Evaluate(e)
	if err != nil {
		return nil, false, err
	}
	if !v.IsValid() {
		return &ConstantExpr{}, false, nil
	}
	return &ConstantExpr{Value: v.Interface(), Type: v.Type()}, false, nil
}

// Evaluate interprets an expression that contains no parameter references.
// The zero reflect.Value represents a nil result. Runtime panics raised by
// the reflection calls (nil dereference, division by zero, failed conversion)
// are converted into evaluation errors.
func Evaluate(e Expression) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = reflect.Value{}
			err = qerrors.Evaluationf("evaluating %s: %v", Kind(e), r)
		}
	}()
	return evaluate(e)
}

func evaluate(e Expression) (reflect.Value, error) {
	switch n := e.(type) {
	case *ConstantExpr:
		if n.Value == nil {
			return reflect.Value{}, nil
		}
		return reflect.ValueOf(n.Value), nil

	case *MemberExpr:
		return evaluateMember(n)

	case *UnaryExpr:
		return evaluateUnary(n)

	case *BinaryExpr:
		return evaluateBinary(n)

	case *CallExpr:
		return evaluateCall(n)

	case *ParameterExpr:
		return reflect.Value{}, qerrors.Evaluationf("parameter %s has no value", n.Name)
	}
	return reflect.Value{}, qerrors.Evaluationf("cannot evaluate %s", Kind(e))
}

func evaluateMember(n *MemberExpr) (reflect.Value, error) {
	target, err := evaluate(n.Target)
	if err != nil {
		return reflect.Value{}, err
	}
	if !target.IsValid() {
		return reflect.Value{}, qerrors.Evaluationf("member %s on nil value", n.Member.Name)
	}

	switch n.Member.Name {
	case MemberHasValue:
		if target.Kind() == reflect.Ptr {
			return reflect.ValueOf(!target.IsNil()), nil
		}
		return reflect.ValueOf(true), nil
	case MemberValue:
		if target.Kind() == reflect.Ptr {
			if target.IsNil() {
				return reflect.Value{}, qerrors.Evaluationf("Value on nil %s", target.Type())
			}
			return target.Elem(), nil
		}
		return target, nil
	}

	for target.Kind() == reflect.Ptr {
		if target.IsNil() {
			return reflect.Value{}, qerrors.Evaluationf("member %s on nil %s", n.Member.Name, target.Type())
		}
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return reflect.Value{}, qerrors.Evaluationf("member %s on non-struct %s", n.Member.Name, target.Type())
	}
	f := target.FieldByName(n.Member.Name)
	if !f.IsValid() {
		return reflect.Value{}, qerrors.Evaluationf("type %s has no member %s", target.Type(), n.Member.Name)
	}
	return f, nil
}

func evaluateUnary(n *UnaryExpr) (reflect.Value, error) {
	operand, err := evaluate(n.Operand)
	if err != nil {
		return reflect.Value{}, err
	}
	switch n.Op {
	case OpQuote:
		return operand, nil
	case OpNot:
		if !operand.IsValid() || operand.Kind() != reflect.Bool {
			return reflect.Value{}, qerrors.Evaluationf("not applied to non-boolean")
		}
		return reflect.ValueOf(!operand.Bool()), nil
	case OpNegate:
		switch operand.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return reflect.ValueOf(-operand.Int()).Convert(operand.Type()), nil
		case reflect.Float32, reflect.Float64:
			return reflect.ValueOf(-operand.Float()).Convert(operand.Type()), nil
		}
		if d, ok := operand.Interface().(decimal.Decimal); ok {
			return reflect.ValueOf(d.Neg()), nil
		}
		return reflect.Value{}, qerrors.Evaluationf("negate applied to %s", operand.Type())
	case OpConvert:
		if n.Type == nil {
			return operand, nil
		}
		if !operand.IsValid() {
			return reflect.Value{}, nil
		}
		if !operand.Type().ConvertibleTo(n.Type) {
			return reflect.Value{}, qerrors.Evaluationf("cannot convert %s to %s", operand.Type(), n.Type)
		}
		return operand.Convert(n.Type), nil
	}
	return reflect.Value{}, qerrors.Evaluationf("unary operator %s", n.Op)
}

func evaluateBinary(n *BinaryExpr) (reflect.Value, error) {
	left, err := evaluate(n.Left)
	if err != nil {
		return reflect.Value{}, err
	}
	right, err := evaluate(n.Right)
	if err != nil {
		return reflect.Value{}, err
	}

	switch n.Op {
	case OpAndAlso, OpOrElse:
		if left.Kind() != reflect.Bool || right.Kind() != reflect.Bool {
			return reflect.Value{}, qerrors.Evaluationf("%s applied to non-boolean", n.Op)
		}
		if n.Op == OpAndAlso {
			return reflect.ValueOf(left.Bool() && right.Bool()), nil
		}
		return reflect.ValueOf(left.Bool() || right.Bool()), nil

	case OpEqual, OpNotEqual:
		eq := valuesEqual(left, right)
		if n.Op == OpNotEqual {
			eq = !eq
		}
		return reflect.ValueOf(eq), nil

	case OpLessThan, OpLessThanOrEqual, OpGreaterThan, OpGreaterThanOrEqual:
		cmp, err := compareValues(left, right)
		if err != nil {
			return reflect.Value{}, err
		}
		var out bool
		switch n.Op {
		case OpLessThan:
			out = cmp < 0
		case OpLessThanOrEqual:
			out = cmp <= 0
		case OpGreaterThan:
			out = cmp > 0
		case OpGreaterThanOrEqual:
			out = cmp >= 0
		}
		return reflect.ValueOf(out), nil

	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo:
		return evaluateArithmetic(n.Op, left, right)
	}
	return reflect.Value{}, qerrors.Evaluationf("binary operator %s", n.Op)
}

func evaluateArithmetic(op BinaryOp, left, right reflect.Value) (reflect.Value, error) {
	if !left.IsValid() || !right.IsValid() {
		return reflect.Value{}, qerrors.Evaluationf("%s applied to nil", op)
	}

	if op == OpAdd && left.Kind() == reflect.String && right.Kind() == reflect.String {
		return reflect.ValueOf(left.String() + right.String()), nil
	}

	ld, lok := asDecimal(left)
	rd, rok := asDecimal(right)
	if lok && rok {
		switch op {
		case OpAdd:
			return reflect.ValueOf(ld.Add(rd)), nil
		case OpSubtract:
			return reflect.ValueOf(ld.Sub(rd)), nil
		case OpMultiply:
			return reflect.ValueOf(ld.Mul(rd)), nil
		case OpDivide:
			return reflect.ValueOf(ld.Div(rd)), nil
		case OpModulo:
			return reflect.ValueOf(ld.Mod(rd)), nil
		}
	}

	if isFloat(left) || isFloat(right) {
		lf, rf := toFloat(left), toFloat(right)
		switch op {
		case OpAdd:
			return reflect.ValueOf(lf + rf), nil
		case OpSubtract:
			return reflect.ValueOf(lf - rf), nil
		case OpMultiply:
			return reflect.ValueOf(lf * rf), nil
		case OpDivide:
			return reflect.ValueOf(lf / rf), nil
		}
		return reflect.Value{}, qerrors.Evaluationf("%s applied to float operands", op)
	}

	if isInt(left) && isInt(right) {
		li, ri := left.Int(), right.Int()
		switch op {
		case OpAdd:
			return reflect.ValueOf(li + ri), nil
		case OpSubtract:
			return reflect.ValueOf(li - ri), nil
		case OpMultiply:
			return reflect.ValueOf(li * ri), nil
		case OpDivide:
			return reflect.ValueOf(li / ri), nil
		case OpModulo:
			return reflect.ValueOf(li % ri), nil
		}
	}

	return reflect.Value{}, qerrors.Evaluationf("%s applied to %s and %s", op, left.Type(), right.Type())
}

func evaluateCall(n *CallExpr) (reflect.Value, error) {
	if n.Receiver == nil {
		return reflect.Value{}, qerrors.Evaluationf("static call %s has no evaluator", n.Method.Name)
	}
	receiver, err := evaluate(n.Receiver)
	if err != nil {
		return reflect.Value{}, err
	}
	if !receiver.IsValid() {
		return reflect.Value{}, qerrors.Evaluationf("call %s on nil receiver", n.Method.Name)
	}

	method := receiver.MethodByName(n.Method.Name)
	if !method.IsValid() && receiver.CanAddr() {
		method = receiver.Addr().MethodByName(n.Method.Name)
	}
	if !method.IsValid() {
		// Fall back to a func-typed constant receiver: closures captured by
		// the query builder arrive as func values invoked with the call args.
		if receiver.Kind() == reflect.Func {
			method = receiver
		} else {
			return reflect.Value{}, qerrors.Evaluationf("type %s has no method %s", receiver.Type(), n.Method.Name)
		}
	}

	args := make([]reflect.Value, len(n.Args))
	for i, a := range n.Args {
		av, err := evaluate(a)
		if err != nil {
			return reflect.Value{}, err
		}
		if !av.IsValid() {
			av = reflect.Zero(method.Type().In(i))
		}
		args[i] = av
	}

	results := method.Call(args)
	if len(results) == 0 {
		return reflect.Value{}, qerrors.Evaluationf("method %s returns no value", n.Method.Name)
	}
	if len(results) == 2 {
		if callErr, ok := results[1].Interface().(error); ok && callErr != nil {
			return reflect.Value{}, qerrors.Evaluationf("method %s: %v", n.Method.Name, callErr)
		}
	}
	return results[0], nil
}

// asDecimal extracts an exact decimal from a value. json.Number counts: the
// value formatter emits decimals in that shape, and range tightening must
// still order them numerically.
func asDecimal(v reflect.Value) (decimal.Decimal, bool) {
	if !v.IsValid() {
		return decimal.Decimal{}, false
	}
	switch x := v.Interface().(type) {
	case decimal.Decimal:
		return x, true
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	if isInt(v) {
		return float64(v.Int())
	}
	return v.Float()
}

func valuesEqual(left, right reflect.Value) bool {
	if !left.IsValid() || !right.IsValid() {
		return left.IsValid() == right.IsValid()
	}
	if cmp, err := compareValues(left, right); err == nil {
		return cmp == 0
	}
	return reflect.DeepEqual(left.Interface(), right.Interface())
}

// CompareConstants orders two scalar constant values in a shared numeric or
// lexical domain. It backs both constant folding of comparisons and the range
// tightening performed by the criteria combinators.
func CompareConstants(a, b interface{}) (int, error) {
	return compareValues(reflect.ValueOf(a), reflect.ValueOf(b))
}

// compareValues orders two scalar values in a shared numeric or lexical
// domain. Mixed integer/float comparisons are performed as floats; decimals
// compare exactly.
func compareValues(left, right reflect.Value) (int, error) {
	if !left.IsValid() || !right.IsValid() {
		return 0, qerrors.Evaluationf("cannot compare nil values")
	}

	if lt, lok := left.Interface().(time.Time); lok {
		if rt, rok := right.Interface().(time.Time); rok {
			switch {
			case lt.Before(rt):
				return -1, nil
			case lt.After(rt):
				return 1, nil
			}
			return 0, nil
		}
	}

	if ld, lok := asDecimal(left); lok {
		if rd, rok := asDecimal(right); rok {
			return ld.Cmp(rd), nil
		}
		if isInt(right) {
			return ld.Cmp(decimal.NewFromInt(right.Int())), nil
		}
		if isFloat(right) {
			return ld.Cmp(decimal.NewFromFloat(right.Float())), nil
		}
	}
	if rd, rok := asDecimal(right); rok {
		if isInt(left) {
			return decimal.NewFromInt(left.Int()).Cmp(rd), nil
		}
		if isFloat(left) {
			return decimal.NewFromFloat(left.Float()).Cmp(rd), nil
		}
	}

	if (isInt(left) || isFloat(left)) && (isInt(right) || isFloat(right)) {
		if isInt(left) && isInt(right) {
			switch {
			case left.Int() < right.Int():
				return -1, nil
			case left.Int() > right.Int():
				return 1, nil
			}
			return 0, nil
		}
		lf, rf := toFloat(left), toFloat(right)
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		}
		return 0, nil
	}

	if left.Kind() == reflect.String && right.Kind() == reflect.String {
		switch {
		case left.String() < right.String():
			return -1, nil
		case left.String() > right.String():
			return 1, nil
		}
		return 0, nil
	}

	if left.Kind() == reflect.Bool && right.Kind() == reflect.Bool {
		if left.Bool() == right.Bool() {
			return 0, nil
		}
		if !left.Bool() {
			return -1, nil
		}
		return 1, nil
	}

	return 0, qerrors.Evaluationf("cannot compare %s with %s", left.Type(), right.Type())
}
