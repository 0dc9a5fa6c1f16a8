// Package analysis extracts chaos diagnostics from double-pendulum
// trajectories.
//
// History-based tools work on the recorded phase samples:
//
//   - [DetectPeriodicity]: smallest repeating period, in samples
//   - [EstimateLyapunov]: nearest-neighbour divergence proxy, per sample
//   - [PoincareSection] and [PhasePortrait]: 2D projections for plotting
//   - [PowerSpectrum] and [DominantFrequency]: FFT of a single coordinate
//
// Integration-based tools run their own trajectories:
//
//   - [LyapunovExponent]: two-trajectory separation with renormalization, in 1/s
//   - [BifurcationDiagram]: sweep one parameter and collect section values
//
// A positive exponent from either estimator suggests chaotic motion:
//
//	lambda := analysis.LyapunovExponent(integrators.NewRK4(), x0, p, 1e-3, 20000, 1e-8)
//	if lambda > 0 {
//	    // chaotic
//	}
package analysis
