package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Info describes a registered kernel.
type Info struct {
	Name          string `json:"name"`
	Order         int    `json:"order"`
	NeedsJacobian bool   `json:"needs_jacobian"`
	Description   string `json:"description"`
}

type entry struct {
	info Info
	new  func() dynamo.Stepper
}

// Registry maps kernel names to factories. New always builds a fresh
// instance, so kernels are never shared between drivers.
type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// DefaultRegistry holds every kernel in this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("rk2", "embedded Heun-Euler 2(1)", func() dynamo.Stepper { return NewRK2() })
	r.Register("rk4", "classical Runge-Kutta with step doubling", func() dynamo.Stepper { return NewRK4() })
	r.Register("rkf45", "embedded Runge-Kutta-Fehlberg 4(5)", func() dynamo.Stepper { return NewRKF45() })
	r.Register("rkck", "embedded Cash-Karp 4(5)", func() dynamo.Stepper { return NewRKCK() })
	r.Register("rk45", "embedded Dormand-Prince 5(4), first same as last", func() dynamo.Stepper { return NewRK45() })
	r.Register("rk8pd", "embedded Prince-Dormand 8(7)", func() dynamo.Stepper { return NewRK8PD() })
	r.Register("bsimp", "implicit Bader-Deuflhard extrapolation, needs Jacobian", func() dynamo.Stepper { return NewBSimp() })
	r.Register("eulerimp", "linearly implicit Euler with step doubling, needs Jacobian", func() dynamo.Stepper { return NewEulerImplicit() })
	return r
}

// Register adds or replaces a kernel factory. Order and Jacobian need are
// read from a probe instance.
func (r *Registry) Register(name, description string, factory func() dynamo.Stepper) {
	probe := factory()
	r.entries[name] = entry{
		info: Info{
			Name:          name,
			Order:         probe.Order(),
			NeedsJacobian: probe.NeedsJacobian(),
			Description:   description,
		},
		new: factory,
	}
}

func (r *Registry) New(name string) (dynamo.Stepper, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return e.new(), nil
}

func (r *Registry) Info(name string) (Info, bool) {
	e, ok := r.entries[name]
	return e.info, ok
}

// List returns every registered kernel sorted by name.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Names() []string {
	infos := r.List()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

var defaultRegistry = DefaultRegistry()

// New builds a fresh kernel from the default registry.
func New(name string) (dynamo.Stepper, error) {
	return defaultRegistry.New(name)
}

// List describes every kernel in the default registry.
func List() []Info {
	return defaultRegistry.List()
}
