package integrators

import (
	"math"
	"testing"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

func TestRK45_EnergyConservation(t *testing.T) {
	integ := NewRK45(1e-9)
	dyn := &harmonicOscillator{}
	x := dynamo.State{Theta1: 1.0}

	initialEnergy := dyn.Energy(x)
	dt := 0.01
	elapsed := 0.0

	for elapsed < 20 {
		var size StepSize
		x, size = integ.Advance(dyn, x, dynamo.Params{}, dt)
		elapsed += size.Used
		dt = size.Next
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
	if math.Abs(x.Theta1-math.Cos(elapsed)) > 1e-5 {
		t.Errorf("position error too large: got %f, expected %f", x.Theta1, math.Cos(elapsed))
	}
}

func TestRK45_ShrinksLargeStep(t *testing.T) {
	integ := NewRK45(1e-10)
	x := dynamo.AtRest(2.5, -2.0)

	_, size := integ.Advance(&harmonicOscillator{}, x, dynamo.Params{}, 1.0)

	if size.Used >= 1.0 {
		t.Errorf("expected a rejected first attempt, used %g", size.Used)
	}
	if size.Next < integ.MinDt || size.Next > integ.MaxDt {
		t.Errorf("next dt %g outside [%g, %g]", size.Next, integ.MinDt, integ.MaxDt)
	}
}

func TestRK45_DoublePendulum(t *testing.T) {
	e := NewEngine(NewRK45(1e-9), 1e-3)
	p := dynamo.DefaultParams()
	x := dynamo.AtRest(-math.Pi/2, -math.Pi/3)

	initial := x.TotalEnergy(p)
	for i := 0; i < 500; i++ {
		x, _ = e.Step(x, p)
		if !x.IsValid() {
			t.Fatalf("step %d: invalid state %v", i, x)
		}
	}

	drift := math.Abs(x.TotalEnergy(p)-initial) / math.Abs(initial)
	if drift > 1e-4 {
		t.Errorf("energy drift too high: %e", drift)
	}
}
