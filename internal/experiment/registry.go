package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/odeint/internal/control"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/integrators"
	"github.com/san-kum/odeint/internal/metrics"
	"github.com/san-kum/odeint/internal/models"
)

// Registry resolves the names used in run configurations.
type Registry struct {
	models      map[string]func() models.Model
	steppers    *integrators.Registry
	controllers map[string]func(order int) control.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() models.Model),
		steppers:    integrators.DefaultRegistry(),
		controllers: make(map[string]func(int) control.Controller),
	}

	r.models["vanderpol"] = func() models.Model { return models.NewVanDerPol() }
	r.models["decay"] = func() models.Model { return models.NewDecay() }
	r.models["inverse-decay"] = func() models.Model { return models.NewInverseDecay() }
	r.models["robertson"] = func() models.Model { return models.NewRobertson() }
	r.models["lorenz"] = func() models.Model { return models.NewLorenz() }
	r.models["pendulum"] = func() models.Model { return models.NewPendulum() }
	r.models["double-pendulum"] = func() models.Model { return models.NewDoublePendulum() }
	r.models["rossler"] = func() models.Model { return models.NewRossler() }
	r.models["duffing"] = func() models.Model { return models.NewDuffing() }

	r.controllers["standard"] = func(int) control.Controller { return control.NewStandard() }
	r.controllers["pi"] = func(int) control.Controller { return control.NewPI() }
	r.controllers["fixed"] = func(int) control.Controller { return control.NewFixed() }

	return r
}

// RegisterModel adds or replaces a model factory.
func (r *Registry) RegisterModel(name string, factory func() models.Model) {
	r.models[name] = factory
}

func (r *Registry) GetModel(name string) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetStepper(name string) (dynamo.Stepper, error) {
	return r.steppers.New(name)
}

func (r *Registry) GetController(name string, order int) (control.Controller, error) {
	if name == "" {
		name = "standard"
	}
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(order), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListControllers() []string {
	return sortedKeys(r.controllers)
}

func (r *Registry) ListSteppers() []integrators.Info {
	return r.steppers.List()
}

// DefaultMetrics returns the metrics worth tracking for m.
func (r *Registry) DefaultMetrics(m models.Model) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewStability(1e6)}
	if h, ok := m.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h), metrics.NewEnergyDrift(h))
	}
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
