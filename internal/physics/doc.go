// Package physics provides the equations of motion for the double pendulum.
//
// [Derive] is a pure function of state and parameters; [DoublePendulum]
// wraps it with a mutable parameter set for callers that tune parameters
// by name:
//
//	dp := physics.NewDoublePendulum()
//	if err := dp.SetParam("damping", 0.1); err != nil {
//	    return err
//	}
//	dx := dp.Derive(x, dp.Params)
//
// # Singular configurations
//
// The mass-matrix determinant is floored at [MinDeterminant]. Near a
// singular configuration the resulting accelerations are inexact and the
// per-step energy error reported by the integrator will spike; that
// energy error is the signal callers should watch.
package physics
