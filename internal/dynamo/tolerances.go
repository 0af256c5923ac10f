package dynamo

import (
	"fmt"
	"math"
)

// Tolerances weight per-component errors into a dimensionless quantity:
//
//	D_i = Absolute + Relative*(ScaleY*|y_i| + ScaleDydt*|h*dydt_i|)
type Tolerances struct {
	Absolute  float64 `json:"absolute" yaml:"absolute"`
	Relative  float64 `json:"relative" yaml:"relative"`
	ScaleY    float64 `json:"scale_y" yaml:"scale_y"`
	ScaleDydt float64 `json:"scale_dydt" yaml:"scale_dydt"`
}

// NewTolerances weights errors against the state only.
func NewTolerances(abs, rel float64) Tolerances {
	return Tolerances{Absolute: abs, Relative: rel, ScaleY: 1}
}

func (t Tolerances) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"absolute", t.Absolute},
		{"relative", t.Relative},
		{"scale_y", t.ScaleY},
		{"scale_dydt", t.ScaleDydt},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return &EvalError{
				Kind:   KindInvalidTolerances,
				Op:     "tolerances",
				Detail: fmt.Sprintf("%s must be finite and non-negative, got %g", f.name, f.v),
			}
		}
	}
	if t.Absolute == 0 && t.Relative == 0 {
		return &EvalError{
			Kind:   KindInvalidTolerances,
			Op:     "tolerances",
			Detail: "absolute and relative tolerance are both zero",
		}
	}
	return nil
}
