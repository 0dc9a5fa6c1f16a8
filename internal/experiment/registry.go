package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
)

type Registry struct {
	integrators map[string]func(tolerance float64) integrators.Strategy
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(float64) integrators.Strategy),
	}

	r.integrators["euler"] = func(float64) integrators.Strategy { return integrators.NewEuler() }
	r.integrators["rk4"] = func(float64) integrators.Strategy { return integrators.NewRK4() }
	r.integrators["adaptive"] = func(tol float64) integrators.Strategy { return integrators.NewAdaptive(toleranceOrDefault(tol)) }
	r.integrators["rk45"] = func(tol float64) integrators.Strategy { return integrators.NewRK45(toleranceOrDefault(tol)) }

	return r
}

func toleranceOrDefault(tol float64) float64 {
	if tol > 0 {
		return tol
	}
	return integrators.DefaultTolerance
}

// GetIntegrator returns a new strategy. tolerance is used by the
// adaptive strategies only; non-positive values select the default.
func (r *Registry) GetIntegrator(name string, tolerance float64) (integrators.Strategy, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(tolerance), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewStability(math.Pi / 2),
	}
}
