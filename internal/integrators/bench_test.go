package integrators

import (
	"testing"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

func benchmarkStrategy(b *testing.B, s Strategy) {
	e := NewEngine(s, 1e-3)
	p := dynamo.DefaultParams()
	x := dynamo.AtRest(-1.0, -0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = e.Step(x, p)
	}
}

func BenchmarkEuler(b *testing.B)    { benchmarkStrategy(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)      { benchmarkStrategy(b, NewRK4()) }
func BenchmarkAdaptive(b *testing.B) { benchmarkStrategy(b, NewAdaptive(DefaultTolerance)) }
func BenchmarkRK45(b *testing.B)     { benchmarkStrategy(b, NewRK45(DefaultTolerance)) }
