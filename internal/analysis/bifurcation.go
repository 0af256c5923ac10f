package analysis

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/experiment"
)

// Bifurcation sweeps one model parameter and records, for each value, the
// distinct local maxima of one state component after a transient.
type Bifurcation struct {
	Base       *config.Config
	Param      string
	Min, Max   float64
	Steps      int
	StateIndex int
	// Transient is the time after Base.T0 before peaks are recorded.
	Transient float64
	// Resolution merges peaks closer than this. Zero means 1e-3.
	Resolution float64
}

type BifurcationPoint struct {
	Param  float64   `json:"param"`
	Values []float64 `json:"values"`
}

func (b *Bifurcation) value(i int) float64 {
	if b.Steps == 1 {
		return b.Min
	}
	return b.Min + float64(i)*(b.Max-b.Min)/float64(b.Steps-1)
}

// Run integrates every parameter value concurrently.
func (b *Bifurcation) Run(ctx context.Context, reg *experiment.Registry) ([]BifurcationPoint, error) {
	if b.Steps <= 0 {
		return nil, fmt.Errorf("analysis: bifurcation needs at least one step, got %d", b.Steps)
	}
	resolution := b.Resolution
	if resolution <= 0 {
		resolution = 1e-3
	}

	build := func(i int) (*driver.Driver, error) {
		cfg := b.Base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[b.Param] = b.value(i)
		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return nil, err
		}
		return exp.Driver(), nil
	}

	runs, err := driver.RunEnsemble(ctx, b.Steps, build, b.Base.T1, b.Base.Intervals)
	if err != nil {
		return nil, err
	}

	out := make([]BifurcationPoint, b.Steps)
	for i, run := range runs {
		series, err := Component(run.States, b.StateIndex)
		if err != nil {
			return nil, err
		}
		var peaks []float64
		for j := 1; j+1 < len(series); j++ {
			if run.Times[j] < b.Base.T0+b.Transient {
				continue
			}
			if series[j] > series[j-1] && series[j] >= series[j+1] {
				peaks = addDistinct(peaks, series[j], resolution)
			}
		}
		slices.Sort(peaks)
		out[i] = BifurcationPoint{Param: b.value(i), Values: peaks}
	}
	return out, nil
}

func addDistinct(values []float64, v, resolution float64) []float64 {
	for _, u := range values {
		if math.Abs(u-v) < resolution {
			return values
		}
	}
	return append(values, v)
}

// BifurcationASCII plots parameter along x and recorded peaks along y.
func BifurcationASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 1 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal, maxVal = min(minVal, v), max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newCanvas(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			canvas[row][col] = '•'
		}
	}
	return render(canvas)
}
