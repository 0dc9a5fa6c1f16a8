package analysis

import (
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
	"github.com/shallvtalk/chaospendulum/internal/physics"
)

const (
	// MinLyapunovMargin is how many samples beyond the window
	// EstimateLyapunov needs before it attempts an estimate.
	MinLyapunovMargin = 100

	neighbourSkip  = 10
	neighbourReach = 50
	minSeparation  = 1e-8
)

// EstimateLyapunov is a coarse single-trajectory proxy for the largest
// Lyapunov exponent. For every reference sample it picks the nearest
// sample 10 to 49 steps later, then measures how far the pair has drifted
// apart window steps on. The result is the mean of ln(d1/d0)/window, in
// units of 1/sample. It is not a rigorous estimator; sign and rough
// magnitude are what it is good for.
func EstimateLyapunov(samples []dynamo.PhaseSample, window int) (float64, bool) {
	n := len(samples)
	if window < 1 || n < window+MinLyapunovMargin {
		return 0, false
	}

	sum := 0.0
	count := 0

	for i := 0; i+window < n; i++ {
		ref := samples[i]

		nearest := 0
		d0 := math.Inf(1)
		for j := i + neighbourSkip; j < min(i+neighbourReach, n); j++ {
			d := ref.Distance(samples[j])
			if d < d0 && d > minSeparation {
				d0 = d
				nearest = j
			}
		}

		if nearest == 0 || nearest+window >= n {
			continue
		}

		d1 := samples[i+window].Distance(samples[nearest+window])
		if d1 > minSeparation && d0 > minSeparation {
			sum += math.Log(d1/d0) / float64(window)
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// LyapunovExponent estimates the largest Lyapunov exponent, in 1/s, by
// integrating a reference trajectory alongside one displaced by
// perturbation in θ1. After every step the separation is logged and the
// displaced state is pulled back to distance perturbation along the
// separation vector.
//
// The strategy is advanced with a fixed dt; step sizes suggested by
// adaptive strategies are ignored.
func LyapunovExponent(
	s integrators.Strategy,
	x0 dynamo.State,
	p dynamo.Params,
	dt float64,
	steps int,
	perturbation float64,
) float64 {
	if steps <= 0 || dt <= 0 || perturbation <= 0 {
		return 0
	}

	dyn := physics.NewDoublePendulum()
	x := x0
	xp := x0
	xp.Theta1 += perturbation

	sumLog := 0.0
	elapsed := 0.0

	for i := 0; i < steps; i++ {
		var size integrators.StepSize
		x, size = s.Advance(dyn, x, p, dt)
		xp, _ = s.Advance(dyn, xp, p, size.Used)
		x = x.Normalized()
		xp = xp.Normalized()
		elapsed += size.Used

		delta := separation(x, xp)
		sep := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1] + delta[2]*delta[2] + delta[3]*delta[3])
		if sep == 0 || math.IsNaN(sep) {
			continue
		}
		sumLog += math.Log(sep / perturbation)

		// Renormalize
		scale := perturbation / sep
		xp = dynamo.State{
			Theta1: x.Theta1 + delta[0]*scale,
			Theta2: x.Theta2 + delta[1]*scale,
			Omega1: x.Omega1 + delta[2]*scale,
			Omega2: x.Omega2 + delta[3]*scale,
		}
	}

	if elapsed == 0 {
		return 0
	}
	return sumLog / elapsed
}

// separation is xp - x with angle differences wrapped into (-π, π].
func separation(x, xp dynamo.State) [4]float64 {
	return [4]float64{
		dynamo.NormalizeAngle(xp.Theta1 - x.Theta1),
		dynamo.NormalizeAngle(xp.Theta2 - x.Theta2),
		xp.Omega1 - x.Omega1,
		xp.Omega2 - x.Omega2,
	}
}
