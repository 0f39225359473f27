package esquery

import "github.com/nlstn/go-esquery/internal/qerrors"

// Sentinel errors for the translation failure kinds. Use errors.Is to
// classify a failed translation; the wrapped message names the offending
// expression node.
var (
	// ErrUnsupported indicates an expression node or method the translator
	// does not know how to convert into a filter.
	ErrUnsupported = qerrors.ErrUnsupported

	// ErrEvaluation indicates the partial evaluator failed to compute a
	// closed-over value.
	ErrEvaluation = qerrors.ErrEvaluation

	// ErrArgument indicates an invalid input to a constructor, such as a
	// blank field name or a malformed lambda.
	ErrArgument = qerrors.ErrArgument

	// ErrValueOutOfRange indicates an enum value that is not defined on its
	// type when formatting as a symbolic name.
	ErrValueOutOfRange = qerrors.ErrValueOutOfRange
)
