package driver

import (
	"math"
	"testing"

	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/models"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero", Config{}, false},
		{"bounds", Config{MinStep: 1e-9, MaxStep: 0.1}, false},
		{"nan initial", Config{InitialStep: math.NaN()}, true},
		{"negative min", Config{MinStep: -1}, true},
		{"min above max", Config{MinStep: 1, MaxStep: 0.1}, true},
		{"negative budget", Config{MaxSteps: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{MaxStep: 2}.withDefaults()
	if cfg.MaxSteps != 1_000_000 || cfg.MaxRejects != 100 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.MaxStep != 2 {
		t.Errorf("explicit value lost: %+v", cfg)
	}
}

func TestEstimateStep(t *testing.T) {
	sys := models.NewDecay().System()
	y := dynamo.State{1}
	dydt, _ := sys.Derive(0, y)
	tol := dynamo.NewTolerances(1e-8, 1e-8)

	fwd, err := estimateStep(sys, 0, y, dydt, tol, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	back, _ := estimateStep(sys, 0, y, dydt, tol, 5, -1)
	if fwd <= 0 || back >= 0 {
		t.Errorf("direction lost: forward %g, backward %g", fwd, back)
	}
	if fwd > 1 || fwd < 1e-6 {
		t.Errorf("implausible start step %g", fwd)
	}

	// A resting state with zero slope falls back to a tiny step.
	rest := dynamo.State{0}
	h, _ := estimateStep(sys, 0, rest, dynamo.State{0}, tol, 5, 1)
	if h <= 0 || math.IsInf(h, 0) || h > 1e-3 {
		t.Errorf("start step from rest = %g", h)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{
		Idle: "idle", Stepping: "stepping", Accepted: "accepted",
		Rejected: "rejected", Reached: "reached", Failed: "failed", Status(99): "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("Status(%d) = %q, want %q", s, got, want)
		}
	}
}
