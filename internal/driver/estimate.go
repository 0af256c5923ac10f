package driver

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// estimateStep guesses a start step from the size of y, its slope and a
// finite-difference estimate of the second derivative. dir is +1 or -1.
func estimateStep(sys dynamo.System, t float64, y, dydt dynamo.State, tol dynamo.Tolerances, order int, dir float64) (float64, error) {
	n := len(y)
	scale := make([]float64, n)
	for i := range y {
		scale[i] = tol.Absolute + tol.Relative*math.Abs(y[i])
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	rms := func(v func(i int) float64) float64 {
		sum := 0.0
		for i := 0; i < n; i++ {
			x := v(i) / scale[i]
			sum += x * x
		}
		return math.Sqrt(sum / float64(n))
	}

	d0 := rms(func(i int) float64 { return y[i] })
	d1 := rms(func(i int) float64 { return dydt[i] })

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}

	probe := make(dynamo.State, n)
	for i := range y {
		probe[i] = y[i] + dir*h0*dydt[i]
	}
	f1, err := sys.Derive(t+dir*h0, probe)
	if err != nil {
		return 0, err
	}
	d2 := rms(func(i int) float64 { return f1[i] - dydt[i] }) / h0

	var h1 float64
	if dmax := math.Max(d1, d2); dmax <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/dmax, 1/float64(order+1))
	}

	h := math.Min(100*h0, h1)
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		h = 1e-6
	}
	return dir * h, nil
}
