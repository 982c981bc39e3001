package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBinding is returned when an identifier is left after substitution
	// or a bound value is not a finite number.
	ErrMissingBinding = errors.New("missing binding")
	// ErrUnsafeExpression is returned when the substituted expression contains a
	// character outside digits, + - * / ( ) . and space.
	ErrUnsafeExpression = errors.New("unsafe expression")
	// ErrDivisionByZero is returned instead of propagating Inf or NaN.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNonFinite is returned when the result overflows to Inf or becomes NaN.
	ErrNonFinite = errors.New("non-finite result")
	// ErrSyntax is returned for expressions that pass the character gate but do not parse.
	ErrSyntax = errors.New("syntax error")
)

// EvalError describes why a formula could not be evaluated.
// Kind is one of the sentinel errors above and is matched with errors.Is.
type EvalError struct {
	Kind    error
	Formula string
	Detail  string
}

func (e *EvalError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *EvalError) Unwrap() error {
	return e.Kind
}

func newError(kind error, formula, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Formula: formula, Detail: fmt.Sprintf(format, args...)}
}
