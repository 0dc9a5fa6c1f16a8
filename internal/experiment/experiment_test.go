package experiment

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/shallvtalk/chaospendulum/internal/config"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if got := r.ListIntegrators(); !reflect.DeepEqual(got, []string{"adaptive", "euler", "rk4", "rk45"}) {
		t.Errorf("unexpected integrators %v", got)
	}

	for _, name := range r.ListIntegrators() {
		s, err := r.GetIntegrator(name, 0)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("strategy %s reports name %s", name, s.Name())
		}
	}

	s, _ := r.GetIntegrator("adaptive", 0)
	if a := s.(*integrators.Adaptive); a.Tolerance != integrators.DefaultTolerance {
		t.Errorf("expected default tolerance, got %g", a.Tolerance)
	}

	if _, err := r.GetIntegrator("verlet", 0); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 100
	p, _ := config.GetPreset("classic-chaos")
	p.Apply(cfg)

	exp, err := New(cfg, NewRegistry(), quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 100 {
		t.Errorf("expected 100 steps, got %d", res.Steps)
	}
	for _, name := range []string{"energy_drift", "stability"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if exp.Simulator().Statistics().Len() != 21 {
		t.Errorf("expected 21 samples, got %d", exp.Simulator().Statistics().Len())
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = "leapfrog"
	if _, err := New(cfg, NewRegistry(), quietLogger()); err == nil {
		t.Error("expected unknown integrator error")
	}

	cfg = config.DefaultConfig()
	cfg.Params.G = 0
	if _, err := New(cfg, NewRegistry(), quietLogger()); err == nil {
		t.Error("expected invalid params error")
	}
}
