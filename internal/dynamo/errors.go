package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes an evaluation failure.
type Kind string

const (
	KindUserFunction      Kind = "user_function_failed"
	KindNoJacobian        Kind = "no_jacobian"
	KindNoConvergence     Kind = "no_convergence"
	KindInvalidTolerances Kind = "invalid_tolerances"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindMaxSteps          Kind = "max_steps"
)

// Domain errors for integration. Compare with errors.Is; any *EvalError of
// the same Kind matches.
var (
	// ErrUserFunction indicates the derivative or Jacobian function failed.
	ErrUserFunction = &EvalError{Kind: KindUserFunction}

	// ErrNoJacobian indicates an implicit stepper was used on a system without a Jacobian.
	ErrNoJacobian = &EvalError{Kind: KindNoJacobian}

	// ErrNoConvergence indicates the step size collapsed below the minimum.
	ErrNoConvergence = &EvalError{Kind: KindNoConvergence}

	// ErrInvalidTolerances indicates negative, non-finite or all-zero tolerances.
	ErrInvalidTolerances = &EvalError{Kind: KindInvalidTolerances}

	// ErrDimensionMismatch indicates a vector or matrix of the wrong size.
	ErrDimensionMismatch = &EvalError{Kind: KindDimensionMismatch}

	// ErrMaxSteps indicates a single advance exceeded its step budget.
	ErrMaxSteps = &EvalError{Kind: KindMaxSteps}
)

// EvalError carries the context of a failed evaluation.
type EvalError struct {
	Kind   Kind
	Op     string
	Time   float64
	Code   int
	Detail string
	Cause  error
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString("dynamo: ")
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		fmt.Fprintf(&b, " in %s", e.Op)
		if e.Op != "tolerances" {
			fmt.Fprintf(&b, " at t=%g", e.Time)
		}
	}
	if e.Kind == KindUserFunction {
		fmt.Fprintf(&b, " (code %d)", e.Code)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *EvalError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *EvalError of the same Kind.
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == e.Kind
}

// UserError builds a coded failure for derivative and Jacobian functions to return.
func UserError(code int, format string, args ...any) error {
	return &EvalError{Kind: KindUserFunction, Code: code, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or "" when err is not an *EvalError.
func KindOf(err error) Kind {
	var ev *EvalError
	if errors.As(err, &ev) {
		return ev.Kind
	}
	return ""
}

type coder interface {
	Code() int
}

// wrapUser tags an error returned by user code with the operation and time.
func wrapUser(op string, t float64, err error) error {
	var ev *EvalError
	if errors.As(err, &ev) {
		if ev.Op != "" {
			return ev
		}
		tagged := *ev
		tagged.Op = op
		tagged.Time = t
		return &tagged
	}
	code := -1
	var c coder
	if errors.As(err, &c) {
		code = c.Code()
	}
	return &EvalError{Kind: KindUserFunction, Op: op, Time: t, Code: code, Cause: err}
}
