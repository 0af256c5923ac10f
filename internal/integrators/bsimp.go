package integrators

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// bulirschSequence holds the substep counts used per extrapolation level.
var bulirschSequence = []int{2, 6, 10, 14, 22, 34, 50, 70}

// BSimp is the Bader-Deuflhard semi-implicit extrapolation method. Each
// trial step runs the linearly implicit midpoint rule with an increasing
// number of substeps and extrapolates the results in (h/n)^2 to zero.
// The Jacobian is evaluated once per step at (t, y).
type BSimp struct {
	levels int
	solver linearSolver
	table  [][]dynamo.State
}

func NewBSimp() *BSimp {
	return &BSimp{levels: 4}
}

func (b *BSimp) Name() string        { return "bsimp" }
func (b *BSimp) NeedsJacobian() bool { return true }

// Order reports 2*levels - 2, the accuracy of the diagonal entry used for
// the error estimate.
func (b *BSimp) Order() int { return 2*b.levels - 2 }

func (b *BSimp) Reset() {
	b.solver = linearSolver{}
	b.table = nil
}

func (b *BSimp) Step(sys dynamo.System, t, h float64, y, dydtIn dynamo.State) (*dynamo.StepResult, error) {
	if !sys.HasJacobian() {
		return nil, &dynamo.EvalError{Kind: dynamo.KindNoJacobian, Op: b.Name(), Time: t}
	}
	n := len(y)
	dydt := make(dynamo.State, n)
	if err := initialSlope(sys, t, y, dydtIn, dydt); err != nil {
		return nil, err
	}
	dfdy, dfdt, err := sys.Jacobian(t, y)
	if err != nil {
		return nil, err
	}

	if len(b.table) != b.levels {
		b.table = make([][]dynamo.State, b.levels)
	}
	for i := 0; i < b.levels; i++ {
		nsub := bulirschSequence[i]
		row := make([]dynamo.State, i+1)
		base, err := b.midpoint(sys, t, h, y, dydt, dfdy, dfdt, nsub)
		if err != nil {
			return nil, err
		}
		row[0] = base
		for j := 1; j <= i; j++ {
			ratio := float64(nsub) / float64(bulirschSequence[i-j])
			denom := ratio*ratio - 1
			prev := b.table[i-1][j-1]
			next := make(dynamo.State, n)
			for k := 0; k < n; k++ {
				next[k] = row[j-1][k] + (row[j-1][k]-prev[k])/denom
			}
			row[j] = next
		}
		b.table[i] = row
	}

	last := b.table[b.levels-1]
	res := &dynamo.StepResult{
		Y:   last[b.levels-1].Clone(),
		Err: make(dynamo.State, n),
	}
	for k := 0; k < n; k++ {
		res.Err[k] = math.Abs(last[b.levels-1][k] - last[b.levels-2][k])
	}
	return res, nil
}

// midpoint runs nsub substeps of the semi-implicit midpoint rule across h.
func (b *BSimp) midpoint(sys dynamo.System, t, h float64, y, dydt dynamo.State, dfdy *mat.Dense, dfdt dynamo.State, nsub int) (dynamo.State, error) {
	n := len(y)
	hs := h / float64(nsub)
	if err := b.solver.factorize(b.Name(), t, hs, dfdy); err != nil {
		return nil, err
	}

	rhs := make(dynamo.State, n)
	delta := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		rhs[i] = hs * (dydt[i] + hs*dfdt[i])
	}
	if err := b.solver.solve(delta, rhs); err != nil {
		return nil, err
	}

	ytemp := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		ytemp[i] = y[i] + delta[i]
	}
	x := t + hs
	yout, err := sys.Derive(x, ytemp)
	if err != nil {
		return nil, err
	}

	corr := make(dynamo.State, n)
	for s := 1; s < nsub; s++ {
		for i := 0; i < n; i++ {
			rhs[i] = hs*yout[i] - delta[i]
		}
		if err := b.solver.solve(corr, rhs); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			delta[i] += 2 * corr[i]
			ytemp[i] += delta[i]
		}
		x += hs
		if yout, err = sys.Derive(x, ytemp); err != nil {
			return nil, err
		}
	}

	for i := 0; i < n; i++ {
		rhs[i] = hs*yout[i] - delta[i]
	}
	if err := b.solver.solve(corr, rhs); err != nil {
		return nil, err
	}
	out := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		out[i] = ytemp[i] + corr[i]
	}
	return out, nil
}
