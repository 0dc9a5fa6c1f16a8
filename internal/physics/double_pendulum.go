package physics

import (
	"fmt"
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// MinDeterminant is the smallest mass-matrix determinant magnitude used
// when solving for the angular accelerations. Smaller values are replaced
// by ±MinDeterminant. This is an approximation that keeps the solve finite
// near singular configurations; it has no physical justification.
const MinDeterminant = 1e-10

// DoublePendulum is the two-link point-mass pendulum under gravity with
// linear velocity damping.
type DoublePendulum struct {
	Params dynamo.Params
}

func NewDoublePendulum() *DoublePendulum {
	return &DoublePendulum{Params: dynamo.DefaultParams()}
}

// Derive evaluates the Lagrangian equations of motion for p.
func (d *DoublePendulum) Derive(x dynamo.State, p dynamo.Params) dynamo.Derivative {
	return Derive(x, p)
}

// Derive is the pure derivative model. The mass matrix
//
//	| (m1+m2)·l1²        m2·l1·l2·cos Δ |
//	| m2·l1·l2·cos Δ     m2·l2²         |
//
// is inverted in closed form against the Coriolis, gravity and damping
// terms.
func Derive(x dynamo.State, p dynamo.Params) dynamo.Derivative {
	theta1, theta2, omega1, omega2 := x.Theta1, x.Theta2, x.Omega1, x.Omega2
	m1, m2, l1, l2, g := p.M1, p.M2, p.L1, p.L2, p.G

	delta := theta1 - theta2
	sinD, cosD := math.Sincos(delta)

	m11 := (m1 + m2) * l1 * l1
	m12 := m2 * l1 * l2 * cosD
	m22 := m2 * l2 * l2

	c1 := -m2*l1*l2*omega2*omega2*sinD - 2*m2*l1*l2*omega2*omega1*sinD
	c2 := m2 * l1 * l2 * omega1 * omega1 * sinD

	g1 := -(m1 + m2) * g * l1 * math.Sin(theta1)
	g2 := -m2 * g * l2 * math.Sin(theta2)

	d1 := -p.Damping * omega1
	d2 := -p.Damping * omega2

	rhs1 := c1 + g1 + d1
	rhs2 := c2 + g2 + d2

	det := clampDeterminant(m11*m22 - m12*m12)

	alpha1 := (m22*rhs1 - m12*rhs2) / det
	alpha2 := (m11*rhs2 - m12*rhs1) / det

	return dynamo.Derivative{
		DTheta1: omega1,
		DTheta2: omega2,
		DOmega1: alpha1,
		DOmega2: alpha2,
	}
}

func clampDeterminant(det float64) float64 {
	if math.Abs(det) >= MinDeterminant {
		return det
	}
	if det < 0 {
		return -MinDeterminant
	}
	return MinDeterminant
}

func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	return x.TotalEnergy(d.Params)
}

func (d *DoublePendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"m1":      d.Params.M1,
		"m2":      d.Params.M2,
		"l1":      d.Params.L1,
		"l2":      d.Params.L2,
		"g":       d.Params.G,
		"damping": d.Params.Damping,
	}
}

// SetParam updates one named parameter. The edited set is validated
// before it replaces the current one.
func (d *DoublePendulum) SetParam(name string, value float64) error {
	p, err := WithParam(d.Params, name, value)
	if err != nil {
		return err
	}
	d.Params = p
	return nil
}

// WithParam returns a copy of p with one named field replaced and validated.
func WithParam(p dynamo.Params, name string, value float64) (dynamo.Params, error) {
	switch name {
	case "m1":
		p.M1 = value
	case "m2":
		p.M2 = value
	case "l1":
		p.L1 = value
	case "l2":
		p.L2 = value
	case "g", "gravity":
		p.G = value
	case "damping":
		p.Damping = value
	default:
		return p, fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
