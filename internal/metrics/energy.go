package metrics

import (
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// EnergyDrift tracks the largest relative departure of the total energy
// from the first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, p dynamo.Params, t float64) {
	energy := x.TotalEnergy(p)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if math.Abs(e.initialEnergy) > 1e-10 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the relative drift of the latest observation.
func (e *EnergyDrift) Current() float64 {
	if e.samples == 0 {
		return 0
	}
	drift := math.Abs(e.currentEnergy - e.initialEnergy)
	if math.Abs(e.initialEnergy) > 1e-10 {
		drift /= math.Abs(e.initialEnergy)
	}
	return drift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
