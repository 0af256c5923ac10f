package metrics

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// StepSizes records the accepted step sizes of a driver.
type StepSizes struct {
	count    int
	min, max float64
	sum      float64
}

func NewStepSizes() *StepSizes {
	return &StepSizes{min: math.Inf(1)}
}

func (s *StepSizes) OnStep(t, h float64, y dynamo.State) {
	a := math.Abs(h)
	s.count++
	s.sum += a
	s.min = math.Min(s.min, a)
	s.max = math.Max(s.max, a)
}

func (s *StepSizes) Count() int { return s.count }

func (s *StepSizes) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

func (s *StepSizes) Max() float64 { return s.max }

func (s *StepSizes) Mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Feed adapts metrics to a driver observer so they see every accepted state.
func Feed(ms ...dynamo.Metric) dynamo.Observer {
	return feed(ms)
}

type feed []dynamo.Metric

func (f feed) OnStep(t, h float64, y dynamo.State) {
	for _, m := range f {
		m.Observe(y, t)
	}
}

// Collect returns the current value of every metric keyed by name.
func Collect(ms []dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Observe replays a sampled trajectory into ms.
func Observe(ms []dynamo.Metric, times []float64, states []dynamo.State) {
	for i, y := range states {
		for _, m := range ms {
			m.Observe(y, times[i])
		}
	}
}
