package integrators

import "github.com/shallvtalk/chaospendulum/internal/dynamo"

// Euler is first-order explicit Euler. It exists as a low-accuracy
// reference for comparisons, not for production stepping.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) (dynamo.State, StepSize) {
	return x.AddScaled(dyn.Derive(x, p), dt), StepSize{Used: dt, Next: dt}
}
