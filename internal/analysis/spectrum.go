package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/odeint/internal/dynamo"
)

var ErrNonUniform = errors.New("analysis: samples are not uniformly spaced")

// Component extracts state index idx from every sample.
func Component(states []dynamo.State, idx int) ([]float64, error) {
	out := make([]float64, len(states))
	for i, s := range states {
		if idx < 0 || idx >= len(s) {
			return nil, fmt.Errorf("analysis: component %d out of range for state of length %d", idx, len(s))
		}
		out[i] = s[idx]
	}
	return out, nil
}

// Spectrum returns the one-sided power spectrum of a uniformly sampled
// series, with frequencies in cycles per unit time. The mean is removed
// first so bin 0 only carries numerical noise.
func Spectrum(times, series []float64) (freqs, power []float64, err error) {
	n := len(series)
	if n < 4 || len(times) != n {
		return nil, nil, fmt.Errorf("analysis: need at least 4 matching samples, got %d times and %d values", len(times), n)
	}
	dt := (times[n-1] - times[0]) / float64(n-1)
	if dt <= 0 {
		return nil, nil, ErrNonUniform
	}
	for i := 1; i < n; i++ {
		if math.Abs(times[i]-times[i-1]-dt) > 1e-6*dt {
			return nil, nil, ErrNonUniform
		}
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)
	freqs = make([]float64, len(coeffs))
	power = make([]float64, len(coeffs))
	for i, c := range coeffs {
		freqs[i] = fft.Freq(i) / dt
		a := cmplx.Abs(c)
		power[i] = a * a
	}
	return freqs, power, nil
}

// DominantFrequency is the frequency of the strongest non-zero bin.
func DominantFrequency(times, series []float64) (float64, error) {
	freqs, power, err := Spectrum(times, series)
	if err != nil {
		return 0, err
	}
	best := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[best] {
			best = i
		}
	}
	return freqs[best], nil
}
