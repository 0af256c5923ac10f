package models

import (
	"fmt"

	"github.com/san-kum/odeint/internal/dynamo"
)

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81
)

// Model is a named system with a default initial condition.
type Model interface {
	dynamo.Configurable
	Name() string
	System() dynamo.System
	DefaultState() dynamo.State
	SetParam(name string, value float64) error
}

// ApplyParams sets every entry of params on m.
func ApplyParams(m Model, params map[string]float64) error {
	for name, v := range params {
		if err := m.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%s: unknown parameter %q", model, name)
}
