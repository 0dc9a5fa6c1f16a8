package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/shallvtalk/chaospendulum/internal/analysis"
	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// DefaultCapacity is the history length used when none is given.
const DefaultCapacity = 2000

// Statistics keeps three bounded histories of a run: energy, bob
// positions and phase-space points. Histories are filled independently;
// callers that want them aligned add one sample to each per record.
type Statistics struct {
	energy     *Ring[dynamo.EnergySample]
	trajectory *Ring[dynamo.TrajectorySample]
	phase      *Ring[dynamo.PhaseSample]
}

func NewStatistics(capacity int) *Statistics {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Statistics{
		energy:     NewRing[dynamo.EnergySample](capacity),
		trajectory: NewRing[dynamo.TrajectorySample](capacity),
		phase:      NewRing[dynamo.PhaseSample](capacity),
	}
}

func (s *Statistics) AddEnergySample(total, kinetic, potential float64) {
	s.energy.Push(dynamo.EnergySample{Total: total, Kinetic: kinetic, Potential: potential})
}

func (s *Statistics) AddTrajectorySample(x1, y1, x2, y2 float64) {
	s.trajectory.Push(dynamo.TrajectorySample{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

func (s *Statistics) AddPhaseSample(theta1, omega1, theta2, omega2 float64) {
	s.phase.Push(dynamo.PhaseSample{Theta1: theta1, Omega1: omega1, Theta2: theta2, Omega2: omega2})
}

// Record adds one aligned sample of x to all three histories.
func (s *Statistics) Record(x dynamo.State, p dynamo.Params) {
	s.energy.Push(x.Energy(p))
	s.trajectory.Push(x.Trajectory(p))
	s.phase.Push(x.Phase())
}

func (s *Statistics) ClearHistory() {
	s.energy.Clear()
	s.trajectory.Clear()
	s.phase.Clear()
}

func (s *Statistics) EnergyHistory() []dynamo.EnergySample         { return s.energy.Slice() }
func (s *Statistics) TrajectoryHistory() []dynamo.TrajectorySample { return s.trajectory.Slice() }
func (s *Statistics) PhaseHistory() []dynamo.PhaseSample           { return s.phase.Slice() }

// Len is the length of the energy history.
func (s *Statistics) Len() int      { return s.energy.Len() }
func (s *Statistics) Capacity() int { return s.energy.Cap() }
func (s *Statistics) HasData() bool { return s.energy.Len() > 0 }

func (s *Statistics) CurrentTotalEnergy() (float64, bool) {
	e, ok := s.energy.Last()
	return e.Total, ok
}

func (s *Statistics) CurrentKineticEnergy() (float64, bool) {
	e, ok := s.energy.Last()
	return e.Kinetic, ok
}

func (s *Statistics) CurrentPotentialEnergy() (float64, bool) {
	e, ok := s.energy.Last()
	return e.Potential, ok
}

func (s *Statistics) MinTotalEnergy() (float64, bool) {
	if !s.HasData() {
		return 0, false
	}
	return floats.Min(s.totals()), true
}

func (s *Statistics) MaxTotalEnergy() (float64, bool) {
	if !s.HasData() {
		return 0, false
	}
	return floats.Max(s.totals()), true
}

func (s *Statistics) MeanTotalEnergy() (float64, bool) {
	if !s.HasData() {
		return 0, false
	}
	return stat.Mean(s.totals(), nil), true
}

// EnergyConservation is the population standard deviation of the total
// energy history. Lower is better.
func (s *Statistics) EnergyConservation() (float64, bool) {
	n := s.energy.Len()
	if n < 2 {
		return 0, false
	}
	_, variance := stat.MeanVariance(s.totals(), nil)
	return math.Sqrt(variance * float64(n-1) / float64(n)), true
}

// DetectPeriodicity looks for a repeating period, in samples, in the
// phase history.
func (s *Statistics) DetectPeriodicity(tolerance float64, minPeriod int) (int, bool) {
	return analysis.DetectPeriodicity(s.phase.Slice(), tolerance, minPeriod)
}

// EstimateLyapunov runs the nearest-neighbour estimate over the phase
// history. The result is per sample, not per second.
func (s *Statistics) EstimateLyapunov(window int) (float64, bool) {
	return analysis.EstimateLyapunov(s.phase.Slice(), window)
}

func (s *Statistics) totals() []float64 {
	out := make([]float64, 0, s.energy.Len())
	s.energy.Do(func(e dynamo.EnergySample) {
		out = append(out, e.Total)
	})
	return out
}
