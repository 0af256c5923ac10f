package models

import (
	"math"
	"testing"

	"github.com/san-kum/odeint/internal/dynamo"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	dp := NewDoublePendulum()
	dx, err := dp.System().Derive(0, dynamo.State{0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range dx {
		if math.Abs(v) > 1e-10 {
			t.Errorf("component %d = %f at equilibrium", i, v)
		}
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	sys := NewDoublePendulum().System()

	dx1, _ := sys.Derive(0, dynamo.State{0.1, 0.1, 0, 0})
	dx2, _ := sys.Derive(0, dynamo.State{-0.1, -0.1, 0, 0})

	if math.Abs(dx1[2]+dx2[2]) > 1e-6 {
		t.Errorf("expected symmetric alpha1: %f vs %f", dx1[2], dx2[2])
	}
	if math.Abs(dx1[3]+dx2[3]) > 1e-6 {
		t.Errorf("expected symmetric alpha2: %f vs %f", dx1[3], dx2[3])
	}
}

func TestDoublePendulumHasNoJacobian(t *testing.T) {
	if NewDoublePendulum().System().HasJacobian() {
		t.Error("double pendulum should not provide a Jacobian")
	}
}
