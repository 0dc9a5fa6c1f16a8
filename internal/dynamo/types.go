package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81
)

// State is the instantaneous kinematic state of both links.
// Angles are measured from the downward vertical.
type State struct {
	Theta1 float64 `yaml:"theta1" json:"theta1"`
	Theta2 float64 `yaml:"theta2" json:"theta2"`
	Omega1 float64 `yaml:"omega1" json:"omega1"`
	Omega2 float64 `yaml:"omega2" json:"omega2"`
}

// AtRest returns a state with both angular velocities zero.
func AtRest(theta1, theta2 float64) State {
	return State{Theta1: theta1, Theta2: theta2}
}

func (s State) IsValid() bool {
	for _, v := range [4]float64{s.Theta1, s.Theta2, s.Omega1, s.Omega2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Vector returns the state as (θ1, θ2, ω1, ω2).
func (s State) Vector() [4]float64 {
	return [4]float64{s.Theta1, s.Theta2, s.Omega1, s.Omega2}
}

// AddScaled returns s + k·d.
func (s State) AddScaled(d Derivative, k float64) State {
	return State{
		Theta1: s.Theta1 + d.DTheta1*k,
		Theta2: s.Theta2 + d.DTheta2*k,
		Omega1: s.Omega1 + d.DOmega1*k,
		Omega2: s.Omega2 + d.DOmega2*k,
	}
}

// Normalized returns a copy with both angles wrapped into (-π, π].
func (s State) Normalized() State {
	s.Theta1 = NormalizeAngle(s.Theta1)
	s.Theta2 = NormalizeAngle(s.Theta2)
	return s
}

// MaxAbsDiff is the largest per-component absolute difference.
func (s State) MaxAbsDiff(o State) float64 {
	return math.Max(
		math.Max(math.Abs(s.Theta1-o.Theta1), math.Abs(s.Theta2-o.Theta2)),
		math.Max(math.Abs(s.Omega1-o.Omega1), math.Abs(s.Omega2-o.Omega2)),
	)
}

// Mass1Position returns the Cartesian position of the upper bob with the
// pivot at the origin and y pointing up.
func (s State) Mass1Position(l1 float64) (x, y float64) {
	return l1 * math.Sin(s.Theta1), -l1 * math.Cos(s.Theta1)
}

func (s State) Mass2Position(l1, l2 float64) (x, y float64) {
	x1, y1 := s.Mass1Position(l1)
	return x1 + l2*math.Sin(s.Theta2), y1 - l2*math.Cos(s.Theta2)
}

func (s State) KineticEnergy(p Params) float64 {
	ke1 := 0.5 * p.M1 * p.L1 * p.L1 * s.Omega1 * s.Omega1

	v2x := p.L1*s.Omega1*math.Cos(s.Theta1) + p.L2*s.Omega2*math.Cos(s.Theta2)
	v2y := p.L1*s.Omega1*math.Sin(s.Theta1) + p.L2*s.Omega2*math.Sin(s.Theta2)
	ke2 := 0.5 * p.M2 * (v2x*v2x + v2y*v2y)

	return ke1 + ke2
}

// PotentialEnergy uses the pivot as the zero reference, so a hanging
// pendulum has negative potential energy.
func (s State) PotentialEnergy(p Params) float64 {
	y1 := -p.L1 * math.Cos(s.Theta1)
	y2 := y1 - p.L2*math.Cos(s.Theta2)
	return p.M1*p.G*y1 + p.M2*p.G*y2
}

func (s State) TotalEnergy(p Params) float64 {
	return s.KineticEnergy(p) + s.PotentialEnergy(p)
}

func (s State) String() string {
	return fmt.Sprintf("θ1=%.4f θ2=%.4f ω1=%.4f ω2=%.4f", s.Theta1, s.Theta2, s.Omega1, s.Omega2)
}

// Params holds the physical constants of one session. Field order
// matches the serialized form: m1, m2, l1, l2, g, damping.
type Params struct {
	M1      float64 `yaml:"m1" json:"m1"`
	M2      float64 `yaml:"m2" json:"m2"`
	L1      float64 `yaml:"l1" json:"l1"`
	L2      float64 `yaml:"l2" json:"l2"`
	G       float64 `yaml:"g" json:"g"`
	Damping float64 `yaml:"damping" json:"damping"`
}

func DefaultParams() Params {
	return Params{
		M1: DefaultMass, M2: DefaultMass,
		L1: DefaultLength, L2: DefaultLength,
		G: DefaultGravity,
	}
}

// Validate reports the first out-of-bounds field. Values are never clamped.
func (p Params) Validate() error {
	switch {
	case !(p.M1 > 0):
		return &ParamError{Name: "m1", Value: p.M1, Reason: "upper mass must be positive"}
	case !(p.M2 > 0):
		return &ParamError{Name: "m2", Value: p.M2, Reason: "lower mass must be positive"}
	case !(p.L1 > 0):
		return &ParamError{Name: "l1", Value: p.L1, Reason: "upper arm length must be positive"}
	case !(p.L2 > 0):
		return &ParamError{Name: "l2", Value: p.L2, Reason: "lower arm length must be positive"}
	case !(p.G > 0):
		return &ParamError{Name: "g", Value: p.G, Reason: "gravitational acceleration must be positive"}
	case !(p.Damping >= 0):
		return &ParamError{Name: "damping", Value: p.Damping, Reason: "damping must not be negative"}
	}
	return nil
}

// Derivative is the time derivative of a State.
type Derivative struct {
	DTheta1, DTheta2 float64
	DOmega1, DOmega2 float64
}

func (d Derivative) Scale(k float64) Derivative {
	return Derivative{
		DTheta1: d.DTheta1 * k,
		DTheta2: d.DTheta2 * k,
		DOmega1: d.DOmega1 * k,
		DOmega2: d.DOmega2 * k,
	}
}

func (d Derivative) Add(o Derivative) Derivative {
	return Derivative{
		DTheta1: d.DTheta1 + o.DTheta1,
		DTheta2: d.DTheta2 + o.DTheta2,
		DOmega1: d.DOmega1 + o.DOmega1,
		DOmega2: d.DOmega2 + o.DOmega2,
	}
}

// NormalizeAngle wraps x into (-π, π]. Values already in range are
// returned unchanged, which keeps the operation exactly idempotent.
func NormalizeAngle(x float64) float64 {
	if x > -math.Pi && x <= math.Pi {
		return x
	}
	r := math.Mod(x, 2*math.Pi)
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// System computes state derivatives for a parameter set.
type System interface {
	Derive(x State, p Params) Derivative
}

// Metric accumulates a scalar over the states of one run.
type Metric interface {
	Name() string
	Observe(x State, p Params, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every accepted integration step.
type Observer interface {
	OnStep(x State, t float64, energyErr float64)
}
