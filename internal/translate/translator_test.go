package translate

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/mapping"
	"github.com/nlstn/go-esquery/internal/qerrors"
)

type robotPricing struct {
	InvoicePrice decimal.Decimal
}

type robotStats struct {
	Pricing robotPricing
}

type robot struct {
	Name    string
	Serial  string `es:"serial,not_analyzed"`
	Cost    decimal.Decimal
	Zone    *int
	Active  bool
	Aliases []string
	Stats   robotStats
	Meta    mapping.DocumentMeta
}

var robotType = reflect.TypeOf(robot{})

// translateBody runs a predicate body through the full pipeline with the
// default mapping and returns the request filter.
func translateBody(t *testing.T, build func(r *expr.ParameterExpr) expr.Expression) criteria.Criteria {
	t.Helper()
	r := expr.Param("r", robotType)
	req, err := Translate(mapping.NewDefaultMapping(), expr.Lambda(r, build(r)))
	require.NoError(t, err)
	return req.Filter
}

func translateErr(t *testing.T, build func(r *expr.ParameterExpr) expr.Expression) error {
	t.Helper()
	r := expr.Param("r", robotType)
	_, err := Translate(mapping.NewDefaultMapping(), expr.Lambda(r, build(r)))
	require.Error(t, err)
	return err
}

func TestTranslate_Equality(t *testing.T) {
	t.Run("String equality lower-cases the term", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Name"), expr.Const("Marvin"))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
		term := got.(*criteria.TermCriteria)
		assert.Equal(t, "name", term.Field)
		assert.Equal(t, "marvin", term.Value)
	})

	t.Run("Not-analyzed member keeps the literal", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Serial"), expr.Const("IG-88B"))
		})
		term := got.(*criteria.TermCriteria)
		assert.Equal(t, "serial", term.Field)
		assert.Equal(t, "IG-88B", term.Value)
	})

	t.Run("Constant on the left normalizes", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.Const("Marvin"), expr.MustField(r, "Name"))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
		assert.Equal(t, "name", got.(*criteria.TermCriteria).Field)
	})

	t.Run("Inequality wraps in not", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Ne(expr.MustField(r, "Name"), expr.Const("Marvin"))
		})
		require.IsType(t, &criteria.NotCriteria{}, got)
		inner := got.(*criteria.NotCriteria).Inner
		require.IsType(t, &criteria.TermCriteria{}, inner)
	})

	t.Run("Nested member chain resolves the dotted path", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Stats", "Pricing", "InvoicePrice"), expr.Const(decimal.NewFromInt(420)))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
		assert.Equal(t, "stats.pricing.invoicePrice", got.(*criteria.TermCriteria).Field)
	})

	t.Run("Equals method calls behave like equality", func(t *testing.T) {
		static := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.EqualsCall(expr.MustField(r, "Name"), expr.Const("Marvin"))
		})
		instance := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.EqualsMethod(expr.MustField(r, "Name"), expr.Const("Marvin"))
		})
		assert.True(t, criteria.Equal(static, instance))
		require.IsType(t, &criteria.TermCriteria{}, static)
	})
}

func TestTranslate_NullTests(t *testing.T) {
	t.Run("Equality to null is missing", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Name"), expr.Null())
		})
		assert.Equal(t, criteria.Criteria(&criteria.MissingCriteria{Field: "name"}), got)
	})

	t.Run("Inequality to null is exists", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Ne(expr.MustField(r, "Name"), expr.Null())
		})
		assert.Equal(t, criteria.Criteria(&criteria.ExistsCriteria{Field: "name"}), got)
	})

	t.Run("Negated null equality is exists", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Not(expr.Eq(expr.MustField(r, "Name"), expr.Null()))
		})
		assert.Equal(t, criteria.Criteria(&criteria.ExistsCriteria{Field: "name"}), got)
	})

	t.Run("Typed nil pointer counts as null", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Zone"), expr.Const((*int)(nil)))
		})
		assert.Equal(t, criteria.Criteria(&criteria.MissingCriteria{Field: "zone"}), got)
	})
}

func TestTranslate_BooleanMembers(t *testing.T) {
	t.Run("Bare boolean member", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.MustField(r, "Active")
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
		term := got.(*criteria.TermCriteria)
		assert.Equal(t, "active", term.Field)
		assert.Equal(t, true, term.Value)
	})

	t.Run("Comparison to true is the member itself", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Active"), expr.Const(true))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
	})

	t.Run("Comparison to false negates", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Active"), expr.Const(false))
		})
		require.IsType(t, &criteria.NotCriteria{}, got)
	})

	t.Run("Inequality to false is the member itself", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Ne(expr.MustField(r, "Active"), expr.Const(false))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
	})
}

func TestTranslate_Ranges(t *testing.T) {
	t.Run("Conjoined bounds merge into one range", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.AndAlso(
				expr.Gt(expr.MustField(r, "Cost"), expr.Const(decimal.RequireFromString("710.956"))),
				expr.Lt(expr.MustField(r, "Cost"), expr.Const(decimal.RequireFromString("3428.9"))),
			)
		})
		require.IsType(t, &criteria.RangeCriteria{}, got, "a single node, not a conjunction")
		r := got.(*criteria.RangeCriteria)
		assert.Equal(t, "cost", r.Field)
		require.Len(t, r.Specs, 2)
		assert.Equal(t, criteria.RangeGreater, r.Specs[0].Comparison)
		assert.Equal(t, json.Number("710.956"), r.Specs[0].Value)
		assert.Equal(t, criteria.RangeLess, r.Specs[1].Comparison)
		assert.Equal(t, json.Number("3428.9"), r.Specs[1].Value)
	})

	t.Run("Constant on the left inverts the comparison", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Gt(expr.Const(decimal.NewFromInt(10)), expr.MustField(r, "Cost"))
		})
		require.IsType(t, &criteria.RangeCriteria{}, got)
		r := got.(*criteria.RangeCriteria)
		require.Len(t, r.Specs, 1)
		assert.Equal(t, criteria.RangeLess, r.Specs[0].Comparison)
	})

	t.Run("Inclusive comparisons map to lte and gte", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.AndAlso(
				expr.Ge(expr.MustField(r, "Cost"), expr.Const(decimal.NewFromInt(1))),
				expr.Le(expr.MustField(r, "Cost"), expr.Const(decimal.NewFromInt(9))),
			)
		})
		r := got.(*criteria.RangeCriteria)
		require.Len(t, r.Specs, 2)
		assert.Equal(t, criteria.RangeGreaterOrEqual, r.Specs[0].Comparison)
		assert.Equal(t, criteria.RangeLessOrEqual, r.Specs[1].Comparison)
	})
}

func TestTranslate_SetMembership(t *testing.T) {
	t.Run("Constant collection with null adds a missing alternative", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.ContainsStatic(
				expr.Const([]interface{}{"Robbie", nil, "IG-88"}),
				expr.MustField(r, "Name"),
			)
		})
		require.IsType(t, &criteria.OrCriteria{}, got)
		children := got.(*criteria.OrCriteria).Children
		require.Len(t, children, 2)
		require.IsType(t, &criteria.TermsCriteria{}, children[0])
		terms := children[0].(*criteria.TermsCriteria)
		assert.Equal(t, "name", terms.Field)
		assert.Equal(t, []interface{}{"robbie", "ig-88"}, terms.Values)
		assert.Equal(t, criteria.Criteria(&criteria.MissingCriteria{Field: "name"}), children[1])
	})

	t.Run("Constant collection without null is a plain terms", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Contains(expr.Const([]string{"Robbie", "IG-88"}), expr.MustField(r, "Name"))
		})
		require.IsType(t, &criteria.TermsCriteria{}, got)
		assert.Equal(t, criteria.ExecutionPlain, got.(*criteria.TermsCriteria).Execution)
	})

	t.Run("Single-element collection degenerates to a term", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Contains(expr.Const([]string{"Robbie"}), expr.MustField(r, "Name"))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
	})

	t.Run("Sequence member probed with a constant", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Contains(expr.MustField(r, "Aliases"), expr.Const("Marvin"))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
		term := got.(*criteria.TermCriteria)
		assert.Equal(t, "aliases", term.Field)
		assert.Equal(t, "marvin", term.Value)
	})
}

func TestTranslate_DomainHelpers(t *testing.T) {
	t.Run("ContainsAny uses bool execution", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.ContainsAny(expr.MustField(r, "Aliases"), expr.Const([]string{"Robbie", "IG-88"}))
		})
		require.IsType(t, &criteria.TermsCriteria{}, got)
		assert.Equal(t, criteria.ExecutionBool, got.(*criteria.TermsCriteria).Execution)
	})

	t.Run("ContainsAll uses and execution", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.ContainsAll(expr.MustField(r, "Aliases"), expr.Const([]string{"Robbie", "IG-88"}))
		})
		require.IsType(t, &criteria.TermsCriteria{}, got)
		assert.Equal(t, criteria.ExecutionAnd, got.(*criteria.TermsCriteria).Execution)
	})

	t.Run("Helper arguments are order-agnostic", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.ContainsAny(expr.Const([]string{"Robbie", "IG-88"}), expr.MustField(r, "Aliases"))
		})
		require.IsType(t, &criteria.TermsCriteria{}, got)
		assert.Equal(t, "aliases", got.(*criteria.TermsCriteria).Field)
	})

	t.Run("Regexp", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Regexp(expr.MustField(r, "Name"), expr.Const("mar.*n"))
		})
		assert.Equal(t, criteria.Criteria(&criteria.RegexpCriteria{Field: "name", Pattern: "mar.*n"}), got)
	})

	t.Run("Prefix", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Prefix(expr.MustField(r, "Name"), expr.Const("mar"))
		})
		assert.Equal(t, criteria.Criteria(&criteria.PrefixCriteria{Field: "name", Prefix: "mar"}), got)
	})

	t.Run("Regexp pattern must be constant", func(t *testing.T) {
		err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Regexp(expr.MustField(r, "Name"), expr.MustField(r, "Serial"))
		})
		assert.True(t, errors.Is(err, qerrors.ErrArgument))
	})
}

func TestTranslate_Nullable(t *testing.T) {
	t.Run("HasValue is exists", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.HasValue(expr.MustField(r, "Zone"))
		})
		assert.Equal(t, criteria.Criteria(&criteria.ExistsCriteria{Field: "zone"}), got)
	})

	t.Run("Negated HasValue is missing", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Not(expr.HasValue(expr.MustField(r, "Zone")))
		})
		assert.Equal(t, criteria.Criteria(&criteria.MissingCriteria{Field: "zone"}), got)
	})

	t.Run("Value accessor unwraps in comparisons", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.ValueOf(expr.MustField(r, "Zone")), expr.Const(3))
		})
		require.IsType(t, &criteria.TermCriteria{}, got)
		assert.Equal(t, "zone", got.(*criteria.TermCriteria).Field)
	})
}

func TestTranslate_ConstantPredicates(t *testing.T) {
	t.Run("Folded true leaves only the type selection", func(t *testing.T) {
		m := mapping.NewWrappedDocumentMapping(mapping.NewDefaultMapping())
		r := expr.Param("r", robotType)
		body := expr.OrElse(
			expr.Lt(expr.MustField(r, "Cost"), expr.Const(decimal.NewFromInt(10))),
			expr.OrElse(expr.Const(true), expr.Gt(expr.MustField(r, "Cost"), expr.Const(decimal.NewFromInt(1)))),
		)

		req, err := Translate(m, expr.Lambda(r, body))
		require.NoError(t, err)

		assert.Equal(t, criteria.Criteria(&criteria.ExistsCriteria{Field: "doc.id"}), req.Filter)
		assert.Nil(t, req.Query)
	})

	t.Run("Folded true without type selection leaves no filter", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Const(true)
		})
		assert.Nil(t, got)
	})

	t.Run("Folded false never matches", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Const(false)
		})
		assert.Equal(t, criteria.Criteria(criteria.False), got)
	})
}

func TestTranslate_Logical(t *testing.T) {
	t.Run("Disjoined terms over one field coalesce", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.OrElse(
				expr.Eq(expr.MustField(r, "Name"), expr.Const("Robbie")),
				expr.Eq(expr.MustField(r, "Name"), expr.Const("IG-88")),
			)
		})
		require.IsType(t, &criteria.TermsCriteria{}, got)
		assert.Equal(t, []interface{}{"robbie", "ig-88"}, got.(*criteria.TermsCriteria).Values)
	})

	t.Run("Mixed conjunction keeps child order", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.AndAlso(
				expr.Eq(expr.MustField(r, "Name"), expr.Const("Marvin")),
				expr.MustField(r, "Active"),
			)
		})
		require.IsType(t, &criteria.AndCriteria{}, got)
		children := got.(*criteria.AndCriteria).Children
		require.Len(t, children, 2)
		assert.Equal(t, "name", children[0].(*criteria.TermCriteria).Field)
		assert.Equal(t, "active", children[1].(*criteria.TermCriteria).Field)
	})

	t.Run("Negation of a compound wraps", func(t *testing.T) {
		got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Not(expr.AndAlso(
				expr.Eq(expr.MustField(r, "Name"), expr.Const("Marvin")),
				expr.MustField(r, "Active"),
			))
		})
		require.IsType(t, &criteria.NotCriteria{}, got)
	})
}

func TestTranslate_Convert(t *testing.T) {
	got := translateBody(t, func(r *expr.ParameterExpr) expr.Expression {
		return expr.Eq(
			expr.Convert(expr.MustField(r, "Name"), reflect.TypeOf("")),
			expr.Const("Marvin"),
		)
	})
	require.IsType(t, &criteria.TermCriteria{}, got, "conversions elide transparently")
}

func TestTranslate_PrefixedMapping(t *testing.T) {
	m := mapping.NewWrappedDocumentMapping(mapping.NewDefaultMapping())
	r := expr.Param("r", robotType)

	req, err := Translate(m, expr.Lambda(r, expr.Eq(expr.MustField(r, "Name"), expr.Const("Marvin"))))
	require.NoError(t, err)

	require.IsType(t, &criteria.AndCriteria{}, req.Filter, "type selection joins the user filter")
	children := req.Filter.(*criteria.AndCriteria).Children
	require.Len(t, children, 2)
	assert.Equal(t, "doc.name", children[0].(*criteria.TermCriteria).Field)
	assert.Equal(t, criteria.Criteria(&criteria.ExistsCriteria{Field: "doc.id"}), children[1])
}

func TestTranslate_MetaFields(t *testing.T) {
	m := mapping.NewMetaFieldsMapping(mapping.NewDefaultMapping())
	r := expr.Param("r", robotType)

	req, err := Translate(m, expr.Lambda(r, expr.Eq(expr.MustField(r, "Meta", "ID"), expr.Const("42"))))
	require.NoError(t, err)

	require.IsType(t, &criteria.TermCriteria{}, req.Filter)
	assert.Equal(t, "_id", req.Filter.(*criteria.TermCriteria).Field, "metadata fields replace the member path")
}

func TestTranslate_Errors(t *testing.T) {
	t.Run("String scans are rejected", func(t *testing.T) {
		err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.StringCall("Contains", expr.MustField(r, "Name"), expr.Const("bo"))
		})
		assert.True(t, errors.Is(err, qerrors.ErrUnsupported))
	})

	t.Run("StartsWith and EndsWith are rejected", func(t *testing.T) {
		for _, name := range []string{"StartsWith", "EndsWith"} {
			err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
				return expr.StringCall(name, expr.MustField(r, "Name"), expr.Const("bo"))
			})
			assert.True(t, errors.Is(err, qerrors.ErrUnsupported), name)
		}
	})

	t.Run("Unknown method identity", func(t *testing.T) {
		err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Call(nil, expr.Method{Declaring: "elastic", Name: "FuzzyLike", Arity: 2},
				expr.MustField(r, "Name"), expr.Const("x"))
		})
		assert.True(t, errors.Is(err, qerrors.ErrUnsupported))
	})

	t.Run("Member chain rooted at a foreign parameter", func(t *testing.T) {
		q := expr.Param("q", robotType)
		err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(q, "Name"), expr.Const("Marvin"))
		})
		assert.True(t, errors.Is(err, qerrors.ErrUnsupported))
	})

	t.Run("Comparison without a constant side", func(t *testing.T) {
		err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Eq(expr.MustField(r, "Name"), expr.MustField(r, "Serial"))
		})
		assert.True(t, errors.Is(err, qerrors.ErrUnsupported))
	})

	t.Run("Nil lambda", func(t *testing.T) {
		_, err := Translate(mapping.NewDefaultMapping(), nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, qerrors.ErrArgument))
	})

	t.Run("Nil mapping", func(t *testing.T) {
		r := expr.Param("r", robotType)
		_, err := Translate(nil, expr.Lambda(r, expr.Const(true)))
		require.Error(t, err)
		assert.True(t, errors.Is(err, qerrors.ErrArgument))
	})

	t.Run("Non-boolean constant body", func(t *testing.T) {
		err := translateErr(t, func(r *expr.ParameterExpr) expr.Expression {
			return expr.Const(42)
		})
		assert.True(t, errors.Is(err, qerrors.ErrUnsupported))
	})
}

func TestTranslate_Idempotence(t *testing.T) {
	r := expr.Param("r", robotType)
	build := func() *expr.LambdaExpr {
		return expr.Lambda(r, expr.OrElse(
			expr.Eq(expr.MustField(r, "Name"), expr.Const("Robbie")),
			expr.AndAlso(
				expr.Gt(expr.MustField(r, "Cost"), expr.Const(decimal.NewFromInt(1))),
				expr.Lt(expr.MustField(r, "Cost"), expr.Const(decimal.NewFromInt(9))),
			),
		))
	}

	first, err := Translate(mapping.NewDefaultMapping(), build())
	require.NoError(t, err)
	second, err := Translate(mapping.NewDefaultMapping(), build())
	require.NoError(t, err)

	assert.True(t, criteria.Equal(first.Filter, second.Filter), "translation is deterministic")
}

func TestTranslate_DocumentType(t *testing.T) {
	r := expr.Param("r", robotType)
	req, err := Translate(mapping.NewDefaultMapping(), expr.Lambda(r, expr.Const(true)))
	require.NoError(t, err)
	assert.Equal(t, "robots", req.DocumentType)
}
