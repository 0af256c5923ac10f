package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Tableau is an embedded explicit Runge-Kutta method.
type Tableau struct {
	Name  string
	Order int
	C     []float64
	A     [][]float64
	// B are the weights of the propagated solution.
	B []float64
	// E are the error weights B - Bhat.
	E []float64
	// FSAL marks methods whose last stage is f(t+h, y_next).
	FSAL bool
}

func (tab *Tableau) Stages() int { return len(tab.C) }

// Validate checks the shape of the tableau and the row-sum condition
// sum_j A[i][j] == C[i].
func (tab *Tableau) Validate() error {
	s := len(tab.C)
	if len(tab.A) != s || len(tab.B) != s || len(tab.E) != s {
		return fmt.Errorf("tableau %s: inconsistent stage count", tab.Name)
	}
	for i, row := range tab.A {
		if len(row) != i {
			return fmt.Errorf("tableau %s: row %d has %d entries, want %d", tab.Name, i, len(row), i)
		}
		sum := 0.0
		for _, a := range row {
			sum += a
		}
		if math.Abs(sum-tab.C[i]) > 1e-12 {
			return fmt.Errorf("tableau %s: row %d sums to %.17g, want c=%.17g", tab.Name, i, sum, tab.C[i])
		}
	}
	return nil
}

// Explicit runs any embedded explicit Runge-Kutta tableau.
type Explicit struct {
	tab     *Tableau
	k       []dynamo.State
	scratch dynamo.State
}

func NewExplicit(tab *Tableau) *Explicit {
	return &Explicit{tab: tab}
}

func (r *Explicit) Name() string        { return r.tab.Name }
func (r *Explicit) Order() int          { return r.tab.Order }
func (r *Explicit) NeedsJacobian() bool { return false }

func (r *Explicit) Reset() {
	r.k = nil
	r.scratch = nil
}

func (r *Explicit) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.k = make([]dynamo.State, r.tab.Stages())
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.scratch = make(dynamo.State, n)
	}
}

func (r *Explicit) Step(sys dynamo.System, t, h float64, y, dydtIn dynamo.State) (*dynamo.StepResult, error) {
	n := len(y)
	r.ensureScratch(n)
	tab := r.tab

	if err := initialSlope(sys, t, y, dydtIn, r.k[0]); err != nil {
		return nil, err
	}

	for s := 1; s < tab.Stages(); s++ {
		row := tab.A[s]
		for i := 0; i < n; i++ {
			acc := 0.0
			for j, a := range row {
				if a != 0 {
					acc += a * r.k[j][i]
				}
			}
			r.scratch[i] = y[i] + h*acc
		}
		ks, err := sys.Derive(t+tab.C[s]*h, r.scratch)
		if err != nil {
			return nil, err
		}
		copy(r.k[s], ks)
	}

	res := &dynamo.StepResult{
		Y:   make(dynamo.State, n),
		Err: make(dynamo.State, n),
	}
	for i := 0; i < n; i++ {
		sumB, sumE := 0.0, 0.0
		for j := range tab.B {
			if b := tab.B[j]; b != 0 {
				sumB += b * r.k[j][i]
			}
			if e := tab.E[j]; e != 0 {
				sumE += e * r.k[j][i]
			}
		}
		res.Y[i] = y[i] + h*sumB
		res.Err[i] = math.Abs(h * sumE)
	}
	if tab.FSAL {
		res.DydtOut = r.k[tab.Stages()-1].Clone()
	}
	return res, nil
}

// initialSlope fills dst with f(t, y), reusing dydtIn when the caller has it.
func initialSlope(sys dynamo.System, t float64, y, dydtIn, dst dynamo.State) error {
	if dydtIn != nil {
		copy(dst, dydtIn)
		return nil
	}
	k1, err := sys.Derive(t, y)
	if err != nil {
		return err
	}
	copy(dst, k1)
	return nil
}
