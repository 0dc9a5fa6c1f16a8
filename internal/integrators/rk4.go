package integrators

import "github.com/shallvtalk/chaospendulum/internal/dynamo"

// RK4 is the classic fixed-step fourth-order Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Advance(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) (dynamo.State, StepSize) {
	return rk4(dyn, x, p, dt), StepSize{Used: dt, Next: dt}
}

func rk4(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	k1 := dyn.Derive(x, p)
	k2 := dyn.Derive(x.AddScaled(k1, dt*0.5), p)
	k3 := dyn.Derive(x.AddScaled(k2, dt*0.5), p)
	k4 := dyn.Derive(x.AddScaled(k3, dt), p)

	k := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.AddScaled(k, dt/6.0)
}
