package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
)

const (
	DefaultModel      = "vanderpol"
	DefaultStepper    = "rk45"
	DefaultController = "standard"
	DefaultT1         = 10.0
	DefaultIntervals  = 100
	DefaultAbsTol     = 1e-6
	DefaultRelTol     = 1e-6
)

// Config describes one integration run.
type Config struct {
	Model      string  `yaml:"model" json:"model"`
	Stepper    string  `yaml:"stepper" json:"stepper"`
	Controller string  `yaml:"controller" json:"controller"`
	T0         float64 `yaml:"t0" json:"t0"`
	T1         float64 `yaml:"t1" json:"t1"`
	Intervals  int     `yaml:"intervals" json:"intervals"`
	// InitState overrides the model's default initial condition when set.
	InitState []float64          `yaml:"init_state,omitempty" json:"init_state,omitempty"`
	Params    map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
	Tol       dynamo.Tolerances  `yaml:"tolerances" json:"tolerances"`
	Limits    driver.Config      `yaml:"driver" json:"driver"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Stepper:    DefaultStepper,
		Controller: DefaultController,
		T1:         DefaultT1,
		Intervals:  DefaultIntervals,
		Tol:        dynamo.NewTolerances(DefaultAbsTol, DefaultRelTol),
		Limits:     driver.DefaultConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model is required")
	}
	if c.Stepper == "" {
		return fmt.Errorf("config: stepper is required")
	}
	if c.Intervals <= 0 {
		return fmt.Errorf("config: intervals must be positive, got %d", c.Intervals)
	}
	if err := c.Tol.Validate(); err != nil {
		return err
	}
	return c.Limits.Validate()
}

// Tolerances returns the error weights for the driver.
func (c *Config) Tolerances() dynamo.Tolerances { return c.Tol }

// DriverConfig returns the step limits for the driver.
func (c *Config) DriverConfig() driver.Config { return c.Limits }

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.InitState != nil {
		out.InitState = append([]float64(nil), c.InitState...)
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
