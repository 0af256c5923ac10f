package config

import (
	"sort"

	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
)

func limits(initial float64) driver.Config {
	c := driver.DefaultConfig()
	c.InitialStep = initial
	return c
}

var Presets = map[string]map[string]*Config{
	"vanderpol": {
		"stiff": {
			Model: "vanderpol", Stepper: "rk8pd", Controller: "standard", T1: 100, Intervals: 100,
			InitState: []float64{1, 0}, Params: map[string]float64{"mu": 10},
			Tol: dynamo.NewTolerances(1e-6, 0), Limits: limits(1e-6),
		},
		"implicit": {
			Model: "vanderpol", Stepper: "bsimp", Controller: "standard", T1: 100, Intervals: 100,
			InitState: []float64{1, 0}, Params: map[string]float64{"mu": 10},
			Tol: dynamo.NewTolerances(1e-6, 0), Limits: limits(1e-6),
		},
		"mild": {
			Model: "vanderpol", Stepper: "rk45", Controller: "pi", T1: 30, Intervals: 300,
			InitState: []float64{2, 0}, Params: map[string]float64{"mu": 1},
			Tol: dynamo.NewTolerances(1e-8, 1e-8), Limits: limits(0),
		},
	},
	"decay": {
		"accurate": {
			Model: "decay", Stepper: "rk45", Controller: "standard", T1: 1, Intervals: 10,
			Tol: dynamo.NewTolerances(1e-8, 1e-8), Limits: limits(0),
		},
	},
	"inverse-decay": {
		"singular": {
			Model: "inverse-decay", Stepper: "rk45", Controller: "standard", T1: 1, Intervals: 10,
			Tol: dynamo.NewTolerances(1e-8, 1e-8), Limits: limits(0),
		},
	},
	"robertson": {
		"implicit": {
			Model: "robertson", Stepper: "bsimp", Controller: "standard", T1: 40, Intervals: 40,
			Tol: dynamo.NewTolerances(1e-8, 1e-6), Limits: limits(0),
		},
		"explicit": {
			Model: "robertson", Stepper: "rk45", Controller: "standard", T1: 40, Intervals: 40,
			Tol: dynamo.NewTolerances(1e-8, 1e-6), Limits: limits(0),
		},
	},
	"lorenz": {
		"chaos": {
			Model: "lorenz", Stepper: "rk8pd", Controller: "standard", T1: 50, Intervals: 5000,
			Tol: dynamo.NewTolerances(1e-10, 1e-10), Limits: limits(0),
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Stepper: "rk45", Controller: "standard", T1: 20, Intervals: 400,
			InitState: []float64{0.2, 0}, Tol: dynamo.NewTolerances(1e-9, 1e-9), Limits: limits(0),
		},
		"large": {
			Model: "pendulum", Stepper: "rk45", Controller: "standard", T1: 20, Intervals: 400,
			InitState: []float64{2.5, 0}, Tol: dynamo.NewTolerances(1e-9, 1e-9), Limits: limits(0),
		},
		"spinning": {
			Model: "pendulum", Stepper: "rk8pd", Controller: "standard", T1: 30, Intervals: 600,
			InitState: []float64{0.1, 8}, Tol: dynamo.NewTolerances(1e-9, 1e-9), Limits: limits(0),
		},
	},
	"double-pendulum": {
		"chaos": {
			Model: "double-pendulum", Stepper: "rk8pd", Controller: "standard", T1: 60, Intervals: 6000,
			InitState: []float64{3, 3, 0, 0}, Tol: dynamo.NewTolerances(1e-10, 1e-10), Limits: limits(0),
		},
		"gentle": {
			Model: "double-pendulum", Stepper: "rk45", Controller: "standard", T1: 30, Intervals: 3000,
			InitState: []float64{0.3, 0.3, 0, 0}, Tol: dynamo.NewTolerances(1e-8, 1e-8), Limits: limits(0),
		},
	},
	"rossler": {
		"chaos": {
			Model: "rossler", Stepper: "rkck", Controller: "pi", T1: 200, Intervals: 4000,
			Tol: dynamo.NewTolerances(1e-9, 1e-9), Limits: limits(0),
		},
	},
	"duffing": {
		"chaos": {
			Model: "duffing", Stepper: "rkf45", Controller: "standard", T1: 100, Intervals: 2000,
			Tol: dynamo.NewTolerances(1e-9, 1e-9), Limits: limits(0),
		},
		"periodic": {
			Model: "duffing", Stepper: "rk45", Controller: "standard", T1: 100, Intervals: 2000,
			Params: map[string]float64{"gamma": 0.2}, Tol: dynamo.NewTolerances(1e-8, 1e-8), Limits: limits(0),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of a model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetModels returns every model that has presets, sorted.
func PresetModels() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
