package integrators

import (
	"math"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the embedded Dormand-Prince 5(4) pair with a relative error
// controller. It is an alternative to step-doubling Adaptive.
type RK45 struct {
	Tolerance float64
	MinDt     float64
	MaxDt     float64

	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45(tolerance float64) *RK45 {
	return &RK45{
		Tolerance: tolerance,
		MinDt:     adaptiveMinDt,
		MaxDt:     adaptiveMaxDt,
		safety:    0.9,
		minScale:  0.2,
		maxScale:  10.0,
	}
}

func (r *RK45) Name() string { return "rk45" }

// Advance retries with a smaller step while the error ratio exceeds one
// and dt is above MinDt.
func (r *RK45) Advance(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) (dynamo.State, StepSize) {
	for {
		xNew, errRatio := r.attempt(dyn, x, p, dt)
		dtNew := r.nextStep(dt, errRatio)

		if errRatio <= 1 || dt <= r.MinDt {
			return xNew, StepSize{Used: dt, Next: dtNew}
		}
		dt = dtNew
	}
}

func (r *RK45) attempt(dyn dynamo.System, x dynamo.State, p dynamo.Params, dt float64) (dynamo.State, float64) {
	k1 := dyn.Derive(x, p)
	k2 := dyn.Derive(x.AddScaled(k1, dt*b21), p)
	k3 := dyn.Derive(x.AddScaled(k1.Scale(b31).Add(k2.Scale(b32)), dt), p)
	k4 := dyn.Derive(x.AddScaled(k1.Scale(b41).Add(k2.Scale(b42)).Add(k3.Scale(b43)), dt), p)
	k5 := dyn.Derive(x.AddScaled(k1.Scale(b51).Add(k2.Scale(b52)).Add(k3.Scale(b53)).Add(k4.Scale(b54)), dt), p)
	k6 := dyn.Derive(x.AddScaled(k1.Scale(b61).Add(k2.Scale(b62)).Add(k3.Scale(b63)).Add(k4.Scale(b64)).Add(k5.Scale(b65)), dt), p)

	xNew := x.AddScaled(k1.Scale(c1).Add(k3.Scale(c3)).Add(k4.Scale(c4)).Add(k5.Scale(c5)).Add(k6.Scale(c6)), dt)

	k7 := dyn.Derive(xNew, p)

	errEst := k1.Scale(dc1).Add(k3.Scale(dc3)).Add(k4.Scale(dc4)).Add(k5.Scale(dc5)).Add(k6.Scale(dc6)).Add(k7.Scale(dc7)).Scale(dt)

	xs := x.Vector()
	slope := [4]float64{k1.DTheta1, k1.DTheta2, k1.DOmega1, k1.DOmega2}
	errs := [4]float64{errEst.DTheta1, errEst.DTheta2, errEst.DOmega1, errEst.DOmega2}

	errMax := 0.0
	for i := range xs {
		scale := math.Abs(xs[i]) + math.Abs(dt*slope[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errs[i])/scale)
	}

	tol := r.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	ratio := errMax / tol
	if math.IsNaN(ratio) {
		ratio = math.Inf(1)
	}
	return xNew, ratio
}

func (r *RK45) nextStep(dt, errRatio float64) float64 {
	var dtNew float64
	switch {
	case errRatio > 1:
		dtNew = dt * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		dtNew = dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		dtNew = dt * r.maxScale
	}
	return math.Min(math.Max(dtNew, r.MinDt), r.MaxDt)
}
