package integrators

import (
	"testing"

	"github.com/san-kum/odeint/internal/dynamo"
)

func benchmarkKernel(b *testing.B, name string) {
	k, err := New(name)
	if err != nil {
		b.Fatal(err)
	}
	sys := oscillatorSystem()
	y := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := k.Step(sys, 0, 0.01, y, nil)
		if err != nil {
			b.Fatal(err)
		}
		y = res.Y
	}
}

func BenchmarkRK2(b *testing.B)      { benchmarkKernel(b, "rk2") }
func BenchmarkRK4(b *testing.B)      { benchmarkKernel(b, "rk4") }
func BenchmarkRK45(b *testing.B)     { benchmarkKernel(b, "rk45") }
func BenchmarkRK8PD(b *testing.B)    { benchmarkKernel(b, "rk8pd") }
func BenchmarkBSimp(b *testing.B)    { benchmarkKernel(b, "bsimp") }
func BenchmarkEulerImp(b *testing.B) { benchmarkKernel(b, "eulerimp") }
