package metrics

import (
	"math"
	"testing"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	p := dynamo.DefaultParams()

	x0 := dynamo.AtRest(0.5, 0.3)
	m.Observe(x0, p, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift after one sample, got %g", m.Value())
	}

	// Same configuration with extra speed: higher energy.
	x1 := x0
	x1.Omega1 = 1
	m.Observe(x1, p, 0.1)
	m.Observe(x0, p, 0.2)

	e0 := x0.TotalEnergy(p)
	want := math.Abs(x1.TotalEnergy(p)-e0) / math.Abs(e0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("max drift = %g, want %g", m.Value(), want)
	}
	if m.Current() != 0 {
		t.Errorf("current drift should be back to zero, got %g", m.Current())
	}

	m.Reset()
	if m.Value() != 0 || m.Current() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(math.Pi / 2)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %g", m.Value())
	}

	p := dynamo.DefaultParams()
	m.Observe(dynamo.AtRest(0, 0.2), p, 0)
	m.Observe(dynamo.AtRest(0, 3.0), p, 0)
	m.Observe(dynamo.AtRest(0, -0.1), p, 0)
	m.Observe(dynamo.AtRest(0, -3.0), p, 0)

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Errorf("expected 1 after reset, got %g", m.Value())
	}
}
