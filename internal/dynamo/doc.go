// Package dynamo provides the value types shared by every layer of the
// double-pendulum simulation.
//
//   - [State]: angles and angular velocities of both links
//   - [Params]: masses, arm lengths, gravity and damping
//   - [Derivative]: time derivative of a State, used by the integrators
//   - [System]: anything that can compute a Derivative
//
// State and Params are plain values; they are copied, never shared.
// Geometric and energy queries on State are pure functions of the state
// and a parameter set.
//
// # Example
//
//	p := dynamo.DefaultParams()
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//	x := dynamo.AtRest(-math.Pi/6, -math.Pi/4)
//	e := x.TotalEnergy(p)
package dynamo
