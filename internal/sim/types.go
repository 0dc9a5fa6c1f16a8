package sim

import (
	"fmt"
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// DoublePendulum is the simulated entity: one state, one parameter set
// and the elapsed simulated time. Integrators never touch it; the
// Simulator writes the stepped state back.
type DoublePendulum struct {
	State  dynamo.State
	Params dynamo.Params
	Time   float64
}

func NewDoublePendulum(x dynamo.State, p dynamo.Params) (*DoublePendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !x.IsValid() {
		return nil, fmt.Errorf("initial state %v: %w", x, dynamo.ErrInvalidState)
	}
	return &DoublePendulum{State: x, Params: p}, nil
}

// Reset replaces the state and rewinds time to zero. Parameters are kept.
func (d *DoublePendulum) Reset(x dynamo.State) {
	d.State = x
	d.Time = 0
}

// AdvanceTime adds dt to the elapsed time. Non-positive or non-finite
// values are ignored so time never runs backwards.
func (d *DoublePendulum) AdvanceTime(dt float64) {
	if dt > 0 && !math.IsInf(dt, 0) {
		d.Time += dt
	}
}

func (d *DoublePendulum) Energy() dynamo.EnergySample        { return d.State.Energy(d.Params) }
func (d *DoublePendulum) Positions() dynamo.TrajectorySample { return d.State.Trajectory(d.Params) }

// Result summarizes one Run.
type Result struct {
	Session        string
	Steps          int
	Time           float64
	Final          dynamo.State
	MaxEnergyError float64
	Metrics        map[string]float64
}
