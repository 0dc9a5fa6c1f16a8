package analysis

import "github.com/shallvtalk/chaospendulum/internal/dynamo"

const maxPeriodChecks = 10

// DetectPeriodicity returns the smallest period p >= minPeriod for which
// the most recent samples repeat every p steps within tolerance. Up to ten
// consecutive pairs, walking back from the newest sample, must match. The
// period is in samples, not seconds.
func DetectPeriodicity(samples []dynamo.PhaseSample, tolerance float64, minPeriod int) (int, bool) {
	n := len(samples)
	if minPeriod < 1 || n < 2*minPeriod {
		return 0, false
	}

	for period := minPeriod; period < n/2; period++ {
		if repeatsWith(samples, period, tolerance) {
			return period, true
		}
	}
	return 0, false
}

func repeatsWith(samples []dynamo.PhaseSample, period int, tolerance float64) bool {
	n := len(samples)
	checks := min(n/period, maxPeriodChecks)

	for i := 0; i < checks; i++ {
		newer := n - 1 - i*period
		older := n - 1 - (i+1)*period
		if older < period {
			break
		}
		if samples[newer].Distance(samples[older]) > tolerance {
			return false
		}
	}
	return true
}
