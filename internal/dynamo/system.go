package dynamo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DerivFunc computes dy/dt at (t, y). It must not retain y.
type DerivFunc[P any] func(t float64, y []float64, params P) ([]float64, error)

// JacobianFunc returns df/dy (dim x dim) and df/dt at (t, y).
type JacobianFunc[P any] func(t float64, y []float64, params P) (*mat.Dense, []float64, error)

// Descriptor is an immutable ODE system with a typed parameter block passed
// unchanged to both functions.
type Descriptor[P any] struct {
	dim      int
	derive   DerivFunc[P]
	jacobian JacobianFunc[P]
	params   P
}

// NewDescriptor builds a system of the given dimension. jac may be nil.
func NewDescriptor[P any](dim int, derive DerivFunc[P], jac JacobianFunc[P], params P) (*Descriptor[P], error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dynamo: dimension must be positive, got %d", dim)
	}
	if derive == nil {
		return nil, fmt.Errorf("dynamo: derivative function is required")
	}
	return &Descriptor[P]{dim: dim, derive: derive, jacobian: jac, params: params}, nil
}

// MustDescriptor is NewDescriptor for statically known systems.
func MustDescriptor[P any](dim int, derive DerivFunc[P], jac JacobianFunc[P], params P) *Descriptor[P] {
	d, err := NewDescriptor(dim, derive, jac, params)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Descriptor[P]) Dim() int          { return d.dim }
func (d *Descriptor[P]) Params() P         { return d.params }
func (d *Descriptor[P]) HasJacobian() bool { return d.jacobian != nil }

func (d *Descriptor[P]) Derive(t float64, y State) (State, error) {
	if len(y) != d.dim {
		return nil, d.mismatch("derive", t, "state", len(y))
	}
	dydt, err := d.derive(t, y, d.params)
	if err != nil {
		return nil, wrapUser("derive", t, err)
	}
	if len(dydt) != d.dim {
		return nil, d.mismatch("derive", t, "derivative", len(dydt))
	}
	return dydt, nil
}

func (d *Descriptor[P]) Jacobian(t float64, y State) (*mat.Dense, State, error) {
	if d.jacobian == nil {
		return nil, nil, &EvalError{Kind: KindNoJacobian, Op: "jacobian", Time: t}
	}
	if len(y) != d.dim {
		return nil, nil, d.mismatch("jacobian", t, "state", len(y))
	}
	dfdy, dfdt, err := d.jacobian(t, y, d.params)
	if err != nil {
		return nil, nil, wrapUser("jacobian", t, err)
	}
	if dfdy == nil {
		return nil, nil, d.mismatch("jacobian", t, "matrix", 0)
	}
	if r, c := dfdy.Dims(); r != d.dim || c != d.dim {
		return nil, nil, &EvalError{
			Kind:   KindDimensionMismatch,
			Op:     "jacobian",
			Time:   t,
			Detail: fmt.Sprintf("matrix is %dx%d, want %dx%d", r, c, d.dim, d.dim),
		}
	}
	if len(dfdt) != d.dim {
		return nil, nil, d.mismatch("jacobian", t, "df/dt", len(dfdt))
	}
	return dfdy, dfdt, nil
}

func (d *Descriptor[P]) mismatch(op string, t float64, what string, got int) error {
	return &EvalError{
		Kind:   KindDimensionMismatch,
		Op:     op,
		Time:   t,
		Detail: fmt.Sprintf("%s has length %d, want %d", what, got, d.dim),
	}
}
