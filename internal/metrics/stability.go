package metrics

import (
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// Stability is the fraction of observations in which the outer arm
// stayed within threshold radians of hanging straight down. A flip over
// the top drives it below one.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, p dynamo.Params, t float64) {
	s.samples++
	if math.Abs(dynamo.NormalizeAngle(x.Theta2)) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
