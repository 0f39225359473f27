// Package qerrors holds the sentinel errors shared by the translation
// packages.
package qerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the translation error kinds. Call sites wrap these with
// fmt.Errorf and %w so callers can classify failures with errors.Is while the
// message still names the offending expression.
var (
	// ErrUnsupported indicates an expression node or method identity the
	// translator does not know how to convert.
	ErrUnsupported = errors.New("esquery: unsupported expression")

	// ErrEvaluation indicates the partial evaluator failed to compute a
	// closed-over value.
	ErrEvaluation = errors.New("esquery: expression evaluation failed")

	// ErrArgument indicates an invalid input to a constructor, such as a
	// blank field name or a nil lambda or mapping.
	ErrArgument = errors.New("esquery: invalid argument")

	// ErrValueOutOfRange indicates an enum value that is not defined on its
	// type when formatting as a symbolic name.
	ErrValueOutOfRange = errors.New("esquery: value out of range")
)

// Unsupportedf returns an ErrUnsupported wrapped with a formatted message.
func Unsupportedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

// Evaluationf returns an ErrEvaluation wrapped with a formatted message.
func Evaluationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEvaluation, fmt.Sprintf(format, args...))
}

// Argumentf returns an ErrArgument wrapped with a formatted message.
func Argumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrArgument, fmt.Sprintf(format, args...))
}

// ValueOutOfRangef returns an ErrValueOutOfRange wrapped with a formatted message.
func ValueOutOfRangef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValueOutOfRange, fmt.Sprintf(format, args...))
}
