package driver

import (
	"fmt"
	"math"
)

// Config bounds the step sequence of a driver. Zero values mean "unset"
// except where DefaultConfig fills them in.
type Config struct {
	// InitialStep overrides the automatic start step estimate when non-zero.
	InitialStep float64 `json:"initial_step" yaml:"initial_step"`
	MinStep     float64 `json:"min_step" yaml:"min_step"`
	MaxStep     float64 `json:"max_step" yaml:"max_step"`
	// MaxSteps limits accepted steps within one Advance.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`
	// MaxRejects limits consecutive rejections before giving up.
	MaxRejects int `json:"max_rejects" yaml:"max_rejects"`
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:   1_000_000,
		MaxRejects: 100,
	}
}

func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"initial_step": c.InitialStep,
		"min_step":     c.MinStep,
		"max_step":     c.MaxStep,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("driver config: %s must be finite, got %g", name, v)
		}
	}
	if c.MinStep < 0 || c.MaxStep < 0 {
		return fmt.Errorf("driver config: step bounds must be non-negative")
	}
	if c.MaxStep > 0 && c.MinStep > c.MaxStep {
		return fmt.Errorf("driver config: min_step %g exceeds max_step %g", c.MinStep, c.MaxStep)
	}
	if c.MaxSteps < 0 || c.MaxRejects < 0 {
		return fmt.Errorf("driver config: step limits must be non-negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxSteps == 0 {
		c.MaxSteps = def.MaxSteps
	}
	if c.MaxRejects == 0 {
		c.MaxRejects = def.MaxRejects
	}
	return c
}
