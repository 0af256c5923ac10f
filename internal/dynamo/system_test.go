package dynamo

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type decayParams struct{ k float64 }

func decay(t float64, y []float64, p decayParams) ([]float64, error) {
	return []float64{-p.k * y[0]}, nil
}

func decayJac(t float64, y []float64, p decayParams) (*mat.Dense, []float64, error) {
	return mat.NewDense(1, 1, []float64{-p.k}), []float64{0}, nil
}

func TestDescriptor_Derive(t *testing.T) {
	sys, err := NewDescriptor(1, decay, decayJac, decayParams{k: 2})
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}

	dydt, err := sys.Derive(0, State{3})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if dydt[0] != -6 {
		t.Errorf("expected -6, got %f", dydt[0])
	}

	if !sys.HasJacobian() {
		t.Error("expected Jacobian")
	}
	dfdy, dfdt, err := sys.Jacobian(0, State{3})
	if err != nil {
		t.Fatalf("Jacobian: %v", err)
	}
	if dfdy.At(0, 0) != -2 || dfdt[0] != 0 {
		t.Errorf("unexpected jacobian %v %v", dfdy.At(0, 0), dfdt)
	}
	if sys.Params().k != 2 {
		t.Error("params not carried through")
	}
}

func TestDescriptor_Invalid(t *testing.T) {
	if _, err := NewDescriptor(0, decay, nil, decayParams{}); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := NewDescriptor[decayParams](1, nil, nil, decayParams{}); err == nil {
		t.Error("expected error for nil derivative")
	}
}

func TestDescriptor_Errors(t *testing.T) {
	noJac := MustDescriptor(1, decay, nil, decayParams{k: 1})
	if _, _, err := noJac.Jacobian(0, State{1}); !errors.Is(err, ErrNoJacobian) {
		t.Errorf("expected ErrNoJacobian, got %v", err)
	}

	if _, err := noJac.Derive(0, State{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for state, got %v", err)
	}

	wrongLen := MustDescriptor(2, func(t float64, y []float64, _ struct{}) ([]float64, error) {
		return []float64{1}, nil
	}, nil, struct{}{})
	if _, err := wrongLen.Derive(0, State{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for derivative, got %v", err)
	}

	failing := MustDescriptor(1, func(t float64, y []float64, _ struct{}) ([]float64, error) {
		return nil, UserError(3, "y out of range")
	}, nil, struct{}{})
	_, err := failing.Derive(0.25, State{1})
	var ev *EvalError
	if !errors.As(err, &ev) {
		t.Fatalf("expected *EvalError, got %v", err)
	}
	if ev.Kind != KindUserFunction || ev.Code != 3 || ev.Time != 0.25 {
		t.Errorf("unexpected error %+v", ev)
	}

	badJac := MustDescriptor(2, func(t float64, y []float64, _ struct{}) ([]float64, error) {
		return []float64{0, 0}, nil
	}, func(t float64, y []float64, _ struct{}) (*mat.Dense, []float64, error) {
		return mat.NewDense(1, 2, nil), []float64{0, 0}, nil
	}, struct{}{})
	if _, _, err := badJac.Jacobian(0, State{0, 0}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for matrix, got %v", err)
	}
}
