package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
		maxAbs   float64
	}{
		{State{3, 4}, 5.0, 4.0},
		{State{1, 0}, 1.0, 1.0},
		{State{0, 0}, 0.0, 0.0},
		{State{1, 1, 1, 1}, 2.0, 1.0},
		{State{-7, 2}, math.Sqrt(53), 7.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
		if got := tt.state.MaxAbs(); got != tt.maxAbs {
			t.Errorf("MaxAbs(%v) = %v, want %v", tt.state, got, tt.maxAbs)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestTolerances_Validate(t *testing.T) {
	tests := []struct {
		name  string
		tol   Tolerances
		valid bool
	}{
		{"abs and rel", NewTolerances(1e-6, 1e-6), true},
		{"abs only", NewTolerances(1e-6, 0), true},
		{"rel only", NewTolerances(0, 1e-6), true},
		{"scaled dydt", Tolerances{Absolute: 1e-6, Relative: 1e-6, ScaleY: 0.5, ScaleDydt: 0.5}, true},
		{"both zero", NewTolerances(0, 0), false},
		{"negative abs", NewTolerances(-1e-6, 1e-6), false},
		{"negative scale", Tolerances{Absolute: 1e-6, ScaleY: -1}, false},
		{"NaN rel", NewTolerances(1e-6, math.NaN()), false},
		{"Inf abs", NewTolerances(math.Inf(1), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tol.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if KindOf(err) != KindInvalidTolerances {
					t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidTolerances)
				}
			}
		})
	}
}
