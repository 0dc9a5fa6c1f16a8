package integrators

import (
	"math"
	"testing"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// harmonicOscillator maps x'' = -x onto (Theta1, Omega1).
type harmonicOscillator struct{}

func (h *harmonicOscillator) Derive(x dynamo.State, p dynamo.Params) dynamo.Derivative {
	return dynamo.Derivative{DTheta1: x.Omega1, DOmega1: -x.Theta1}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x.Theta1*x.Theta1 + x.Omega1*x.Omega1)
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{Theta1: 1.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x, _ = integ.Advance(dyn, x, dynamo.Params{}, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x.Theta1-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x.Theta1, expectedX)
	}
	if math.Abs(x.Omega1-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x.Omega1, expectedV)
	}
}

func TestEulerAccuracyIsFirstOrder(t *testing.T) {
	dyn := &harmonicOscillator{}
	p := dynamo.Params{}

	run := func(s Strategy, dt float64) float64 {
		x := dynamo.State{Theta1: 1.0}
		steps := int(math.Round(1.0 / dt))
		for i := 0; i < steps; i++ {
			x, _ = s.Advance(dyn, x, p, dt)
		}
		return math.Abs(x.Theta1 - math.Cos(1.0))
	}

	eulerErr := run(NewEuler(), 0.01)
	rk4Err := run(NewRK4(), 0.01)

	if eulerErr <= rk4Err {
		t.Errorf("expected Euler error %g to exceed RK4 error %g", eulerErr, rk4Err)
	}

	// Halving dt roughly halves the Euler error.
	ratio := eulerErr / run(NewEuler(), 0.005)
	if ratio < 1.7 || ratio > 2.3 {
		t.Errorf("expected first-order convergence ratio near 2, got %f", ratio)
	}
}

func TestRK4DiffersFromEuler(t *testing.T) {
	p := dynamo.DefaultParams()
	x0 := dynamo.AtRest(0.1, 0.2)

	rk4 := NewEngine(NewRK4(), 0.001)
	euler := NewEngine(NewEuler(), 0.001)

	xr, _ := rk4.Step(x0, p)
	xe, _ := euler.Step(x0, p)

	if xr == xe {
		t.Fatal("RK4 and Euler produced identical next states")
	}
	if xr.Theta1 == xe.Theta1 {
		t.Errorf("expected theta1 to differ: rk4=%g euler=%g", xr.Theta1, xe.Theta1)
	}
	if xr.Theta1 == x0.Theta1 {
		t.Error("RK4 should move theta1 from rest within one step")
	}
}
