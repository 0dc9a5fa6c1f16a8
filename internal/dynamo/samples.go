package dynamo

import "math"

// EnergySample is one recorded energy reading.
type EnergySample struct {
	Total     float64 `json:"total"`
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
}

// TrajectorySample holds the Cartesian positions of both bobs.
type TrajectorySample struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// PhaseSample is a point in phase space. Field order follows the
// (θ1, ω1, θ2, ω2) convention of the phase plots, not State.
type PhaseSample struct {
	Theta1 float64 `json:"theta1"`
	Omega1 float64 `json:"omega1"`
	Theta2 float64 `json:"theta2"`
	Omega2 float64 `json:"omega2"`
}

// Distance is the Euclidean distance between two phase points.
func (s PhaseSample) Distance(o PhaseSample) float64 {
	d1 := s.Theta1 - o.Theta1
	d2 := s.Omega1 - o.Omega1
	d3 := s.Theta2 - o.Theta2
	d4 := s.Omega2 - o.Omega2
	return math.Sqrt(d1*d1 + d2*d2 + d3*d3 + d4*d4)
}

func (s State) Phase() PhaseSample {
	return PhaseSample{Theta1: s.Theta1, Omega1: s.Omega1, Theta2: s.Theta2, Omega2: s.Omega2}
}

func (s State) Trajectory(p Params) TrajectorySample {
	x1, y1 := s.Mass1Position(p.L1)
	x2, y2 := s.Mass2Position(p.L1, p.L2)
	return TrajectorySample{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (s State) Energy(p Params) EnergySample {
	ke := s.KineticEnergy(p)
	pe := s.PotentialEnergy(p)
	return EnergySample{Total: ke + pe, Kinetic: ke, Potential: pe}
}
