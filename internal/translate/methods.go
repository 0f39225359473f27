package translate

import (
	"reflect"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

// methodHandler translates one recognized method identity. The dispatch key
// is (declaring type, name, arity); handlers normalize argument positions
// themselves.
type methodHandler func(t *translator, call *expr.CallExpr) (criteria.Criteria, error)

var methodHandlers = map[expr.Method]methodHandler{}

func register(declaring, name string, arity int, h methodHandler) {
	methodHandlers[expr.Method{Declaring: declaring, Name: name, Arity: arity}] = h
}

func init() {
	// Equality methods: the static two-argument form and the instance form,
	// for the well-known value types.
	equalsDeclarings := []string{
		expr.DeclaringObject, expr.DeclaringString,
		"decimal", "double", "int32", "int64", "datetime", "nullable",
	}
	for _, d := range equalsDeclarings {
		register(d, "Equals", 2, translateEqualsCall)
		register(d, "Equals", 1, translateEqualsCall)
	}

	register(expr.DeclaringSlice, "Contains", 1, translateContains)
	register(expr.DeclaringSlice, "Contains", 2, translateContains)

	// String scans have no filter equivalent; they are rejected rather than
	// silently dropped.
	register(expr.DeclaringString, "Contains", 1, rejectStringScan)
	register(expr.DeclaringString, "StartsWith", 1, rejectStringScan)
	register(expr.DeclaringString, "EndsWith", 1, rejectStringScan)

	register(expr.DeclaringElastic, "ContainsAny", 2, termsHelper(criteria.ExecutionBool))
	register(expr.DeclaringElastic, "ContainsAll", 2, termsHelper(criteria.ExecutionAnd))
	register(expr.DeclaringElastic, "Regexp", 2, translateRegexp)
	register(expr.DeclaringElastic, "Prefix", 2, translatePrefix)
}

func (t *translator) translateCall(n *expr.CallExpr) (criteria.Criteria, error) {
	if h, ok := methodHandlers[n.Method]; ok {
		return h(t, n)
	}
	return nil, qerrors.Unsupportedf("method %s.%s with %d argument(s)",
		n.Method.Declaring, n.Method.Name, n.Method.Arity)
}

func translateEqualsCall(t *translator, call *expr.CallExpr) (criteria.Criteria, error) {
	if call.Receiver != nil {
		return t.translateEquality(expr.OpEqual, call.Receiver, call.Args[0])
	}
	return t.translateEquality(expr.OpEqual, call.Args[0], call.Args[1])
}

func rejectStringScan(_ *translator, call *expr.CallExpr) (criteria.Criteria, error) {
	return nil, qerrors.Unsupportedf("string method %s has no filter equivalent", call.Method.Name)
}

// constSequence extracts the elements of a constant slice or array operand.
func constSequence(e expr.Expression) ([]interface{}, bool) {
	v, ok := constValue(e)
	if !ok || v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		ev := rv.Index(i)
		if (ev.Kind() == reflect.Ptr || ev.Kind() == reflect.Interface) && ev.IsNil() {
			out[i] = nil
			continue
		}
		for ev.Kind() == reflect.Ptr || ev.Kind() == reflect.Interface {
			ev = ev.Elem()
		}
		out[i] = ev.Interface()
	}
	return out, true
}

// translateContains handles set membership in both directions: a constant
// collection probed with a member, and a sequence-valued member probed with
// a constant.
func translateContains(t *translator, call *expr.CallExpr) (criteria.Criteria, error) {
	collection := call.Receiver
	item := call.Args[0]
	if collection == nil {
		collection = call.Args[0]
		item = call.Args[1]
	}

	// Member item against a constant collection.
	if field, member, ok, err := t.memberSide(item); err != nil {
		return nil, err
	} else if ok {
		values, isSeq := constSequence(collection)
		if !isSeq {
			return nil, qerrors.Unsupportedf("Contains requires a constant collection, got %s", expr.Print(collection))
		}
		return t.membershipCriteria(field, member, values)
	}

	// Sequence-valued member probed with a constant item.
	if field, member, ok, err := t.memberSide(collection); err != nil {
		return nil, err
	} else if ok {
		value, isConst := constValue(item)
		if !isConst {
			return nil, qerrors.Unsupportedf("Contains requires a constant item, got %s", expr.Print(item))
		}
		formatted, err := t.mapping.FormatValue(*member, value)
		if err != nil {
			return nil, err
		}
		return criteria.NewTerm(field, member, formatted)
	}

	return nil, qerrors.Unsupportedf("Contains has no member chain rooted at the predicate parameter")
}

// membershipCriteria builds the criteria for a constant value set: distinct
// non-null values become a terms criteria and a null in the set adds a
// missing alternative.
func (t *translator) membershipCriteria(field string, member *expr.Member, values []interface{}) (criteria.Criteria, error) {
	formatted := make([]interface{}, 0, len(values))
	hasNull := false
	for _, v := range values {
		if isNullValue(v) {
			hasNull = true
			continue
		}
		f, err := t.mapping.FormatValue(*member, v)
		if err != nil {
			return nil, err
		}
		formatted = append(formatted, f)
	}

	terms := criteria.Terms(field, member, criteria.ExecutionPlain, formatted...)
	if !hasNull {
		return terms, nil
	}
	return criteria.Or(terms, &criteria.MissingCriteria{Field: field}), nil
}

// termsHelper translates the order-agnostic domain helpers ContainsAny and
// ContainsAll into terms criteria with the given execution mode.
func termsHelper(mode criteria.TermsExecutionMode) methodHandler {
	return func(t *translator, call *expr.CallExpr) (criteria.Criteria, error) {
		fieldArg, valuesArg := call.Args[0], call.Args[1]
		field, member, ok, err := t.memberSide(fieldArg)
		if err != nil {
			return nil, err
		}
		if !ok {
			fieldArg, valuesArg = valuesArg, fieldArg
			field, member, ok, err = t.memberSide(fieldArg)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, qerrors.Unsupportedf("%s has no member chain rooted at the predicate parameter", call.Method.Name)
			}
		}

		values, isSeq := constSequence(valuesArg)
		if !isSeq {
			return nil, qerrors.Unsupportedf("%s requires a constant collection, got %s", call.Method.Name, expr.Print(valuesArg))
		}
		formatted := make([]interface{}, 0, len(values))
		for _, v := range values {
			if isNullValue(v) {
				continue
			}
			f, err := t.mapping.FormatValue(*member, v)
			if err != nil {
				return nil, err
			}
			formatted = append(formatted, f)
		}
		return criteria.Terms(field, member, mode, formatted...), nil
	}
}

func translateRegexp(t *translator, call *expr.CallExpr) (criteria.Criteria, error) {
	field, pattern, err := t.fieldAndLiteral(call)
	if err != nil {
		return nil, err
	}
	return &criteria.RegexpCriteria{Field: field, Pattern: pattern}, nil
}

func translatePrefix(t *translator, call *expr.CallExpr) (criteria.Criteria, error) {
	field, prefix, err := t.fieldAndLiteral(call)
	if err != nil {
		return nil, err
	}
	return &criteria.PrefixCriteria{Field: field, Prefix: prefix}, nil
}

// fieldAndLiteral resolves the (member, constant string) argument pair of the
// Regexp and Prefix helpers.
func (t *translator) fieldAndLiteral(call *expr.CallExpr) (string, string, error) {
	field, _, ok, err := t.memberSide(call.Args[0])
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", qerrors.Unsupportedf("%s requires a member chain as its first argument", call.Method.Name)
	}
	value, isConst := constValue(call.Args[1])
	if !isConst {
		return "", "", qerrors.Argumentf("%s requires a constant string pattern", call.Method.Name)
	}
	s, isString := value.(string)
	if !isString {
		return "", "", qerrors.Argumentf("%s pattern must be a string, got %T", call.Method.Name, value)
	}
	return field, s, nil
}
