package integrators

import (
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

const (
	DefaultTolerance = 1e-9
	adaptiveMinDt    = 1e-8
	adaptiveMaxDt    = 1e-2
	growFactor       = 1.5
	shrinkFactor     = 0.5
)

// Adaptive is RK4 with step doubling: one full step is compared against
// two half steps and dt is halved until they agree within Tolerance.
type Adaptive struct {
	Tolerance float64
	MinDt     float64
	MaxDt     float64
}

func NewAdaptive(tolerance float64) *Adaptive {
	return &Adaptive{
		Tolerance: tolerance,
		MinDt:     adaptiveMinDt,
		MaxDt:     adaptiveMaxDt,
	}
}

func (a *Adaptive) Name() string { return "adaptive" }

// Advance returns the two-half-step result when the error estimate is
// below Tolerance, growing dt when the error is under a tenth of it. Once
// shrinking reaches MinDt the last full-step result is accepted as is, so
// the loop always terminates.
func (a *Adaptive) Advance(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) (dynamo.State, StepSize) {
	for {
		full := rk4(dyn, x, p, dt)
		half := rk4(dyn, x, p, dt/2)
		half = rk4(dyn, half, p, dt/2)

		errEst := full.MaxAbsDiff(half)

		if errEst < a.Tolerance {
			next := dt
			if errEst < a.Tolerance/10 && dt < a.MaxDt {
				next = math.Min(dt*growFactor, a.MaxDt)
			}
			return half, StepSize{Used: dt, Next: next}
		}

		smaller := math.Max(dt*shrinkFactor, a.MinDt)
		if smaller <= a.MinDt {
			return full, StepSize{Used: dt, Next: smaller}
		}
		dt = smaller
	}
}
