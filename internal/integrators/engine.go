package integrators

import (
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/physics"
)

const (
	DefaultTimeStep = 1e-3
	// MinTimeStep is the floor applied by SetTimeStep.
	MinTimeStep = 1e-6

	energyFloor = 1e-10
)

// StepSize reports the time step a strategy actually used and the one it
// suggests for the next call. Fixed-step strategies return the same value
// for both.
type StepSize struct {
	Used float64
	Next float64
}

// Strategy advances a state by one step. Implementations must not
// normalize angles; the Engine does that once per accepted step.
type Strategy interface {
	Name() string
	Advance(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) (dynamo.State, StepSize)
}

// Engine applies a Strategy with a configured time step and measures the
// energy error of every step. It holds no simulation state besides dt.
type Engine struct {
	dyn      dynamo.System
	strategy Strategy
	dt       float64
	lastDt   float64
}

// NewEngine returns an engine for the double-pendulum equations of motion.
func NewEngine(strategy Strategy, dt float64) *Engine {
	return NewEngineFor(physics.NewDoublePendulum(), strategy, dt)
}

// NewEngineFor returns an engine integrating an arbitrary system.
func NewEngineFor(dyn dynamo.System, strategy Strategy, dt float64) *Engine {
	e := &Engine{dyn: dyn, strategy: strategy}
	e.SetTimeStep(dt)
	e.lastDt = e.dt
	return e
}

func (e *Engine) Name() string { return e.strategy.Name() }

// SetTimeStep sets dt, raising it to MinTimeStep if smaller.
func (e *Engine) SetTimeStep(dt float64) {
	if !(dt >= MinTimeStep) {
		dt = MinTimeStep
	}
	e.dt = dt
}

// TimeStep is the dt the next Step will start from.
func (e *Engine) TimeStep() float64 { return e.dt }

// LastStepSize is the dt used by the most recent Step. It differs from
// TimeStep only for adaptive strategies.
func (e *Engine) LastStepSize() float64 { return e.lastDt }

// Step advances x by one step and returns the new state, with both angles
// in (-π, π], and the energy error of the step.
func (e *Engine) Step(x dynamo.State, p dynamo.Params) (dynamo.State, float64) {
	e0 := x.TotalEnergy(p)

	next, size := e.strategy.Advance(e.dyn, x, p, e.dt)
	next = next.Normalized()

	e.lastDt = size.Used
	if size.Next > 0 {
		e.dt = size.Next
	}

	return next, EnergyError(e0, next.TotalEnergy(p))
}

// EnergyError is |e1-e0|/|e0|, or the absolute difference when e0 is too
// close to zero to divide by.
func EnergyError(e0, e1 float64) float64 {
	diff := math.Abs(e1 - e0)
	if math.Abs(e0) > energyFloor {
		return diff / math.Abs(e0)
	}
	return diff
}
