// Package formula evaluates small arithmetic expressions over named numeric inputs.
//
// Evaluation has three stages: whole-token substitution of bound names, a
// character gate that only admits digits, + - * / ( ) . and space, and a
// recursive-descent evaluation with IEEE-754 doubles. Nothing that fails the
// gate is ever parsed.
package formula

import (
	"math"
)

// Evaluator evaluates formulas with a fixed rounding policy.
// The zero value is not usable; call New.
type Evaluator struct {
	rounding Rounding
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRounding sets the rounding policy. A nil policy disables rounding.
func WithRounding(r Rounding) Option {
	return func(e *Evaluator) {
		if r == nil {
			r = NoRounding
		}
		e.rounding = r
	}
}

// New creates an Evaluator. Results are rounded to the nearest integer by default.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{rounding: RoundNearest}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate substitutes bindings into formula and evaluates the result.
// Errors are always *EvalError.
func (e *Evaluator) Evaluate(formula string, bindings map[string]float64) (float64, error) {
	expr, err := Substitute(formula, bindings)
	if err != nil {
		return 0, err
	}
	if err := checkSafe(expr, formula); err != nil {
		return 0, err
	}
	v, err := evaluate(expr, formula)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newError(ErrNonFinite, formula, "result is %v", v)
	}
	v = e.rounding(v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newError(ErrNonFinite, formula, "rounded result is %v", v)
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return v, nil
}

var defaultEvaluator = New()

// Evaluate evaluates formula with the default rounding policy.
func Evaluate(formula string, bindings map[string]float64) (float64, error) {
	return defaultEvaluator.Evaluate(formula, bindings)
}
