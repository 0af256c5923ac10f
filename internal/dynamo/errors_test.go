package dynamo

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEvalError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *EvalError
		contains []string
	}{
		{
			name:     "user failure",
			err:      &EvalError{Kind: KindUserFunction, Op: "derive", Time: 0.5, Code: 7, Detail: "domain"},
			contains: []string{"user_function_failed", "derive", "t=0.5", "code 7", "domain"},
		},
		{
			name:     "no convergence",
			err:      &EvalError{Kind: KindNoConvergence, Op: "advance", Time: 2},
			contains: []string{"no_convergence", "advance", "t=2"},
		},
		{
			name:     "with cause",
			err:      &EvalError{Kind: KindUserFunction, Op: "jacobian", Cause: errors.New("singular")},
			contains: []string{"jacobian", "singular"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("Error() = %q, missing %q", msg, s)
				}
			}
		})
	}
}

func TestEvalError_Is(t *testing.T) {
	err := &EvalError{Kind: KindNoConvergence, Op: "advance", Time: 1}
	wrapped := fmt.Errorf("run failed: %w", err)

	if !errors.Is(wrapped, ErrNoConvergence) {
		t.Error("expected wrapped error to match ErrNoConvergence")
	}
	if errors.Is(wrapped, ErrNoJacobian) {
		t.Error("did not expect match with ErrNoJacobian")
	}
	if KindOf(wrapped) != KindNoConvergence {
		t.Errorf("KindOf = %q", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("expected empty kind for plain error")
	}
}

type codedErr struct{ code int }

func (c codedErr) Error() string { return "coded" }
func (c codedErr) Code() int     { return c.code }

func TestWrapUser(t *testing.T) {
	err := wrapUser("derive", 1.5, codedErr{code: 42})
	var ev *EvalError
	if !errors.As(err, &ev) {
		t.Fatalf("expected *EvalError, got %T", err)
	}
	if ev.Kind != KindUserFunction || ev.Code != 42 || ev.Time != 1.5 || ev.Op != "derive" {
		t.Errorf("unexpected error fields: %+v", ev)
	}
	if !errors.Is(err, codedErr{code: 42}) {
		t.Error("cause should remain reachable")
	}

	plain := wrapUser("derive", 0, errors.New("boom"))
	if KindOf(plain) != KindUserFunction || plain.(*EvalError).Code != -1 {
		t.Errorf("plain error not wrapped as uncoded user failure: %v", plain)
	}

	coded := wrapUser("jacobian", 3, UserError(5, "bad input %d", 1))
	if ev := coded.(*EvalError); ev.Code != 5 || ev.Op != "jacobian" {
		t.Errorf("UserError lost context: %+v", ev)
	}

	sentinel := wrapUser("derive", 2, ErrNoConvergence)
	if ErrNoConvergence.Op != "" {
		t.Error("wrapping must not mutate the sentinel")
	}
	if sentinel.(*EvalError).Op != "derive" {
		t.Error("expected op to be tagged on the copy")
	}
}
