package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Dt != 1e-3 {
		t.Errorf("expected dt 1e-3, got %g", cfg.Dt)
	}
	if cfg.State != dynamo.AtRest(-math.Pi/6, -math.Pi/4) {
		t.Errorf("unexpected default state %v", cfg.State)
	}
	if cfg.Capacity != 2000 || cfg.RecordInterval != 5 {
		t.Errorf("unexpected history settings %d/%d", cfg.Capacity, cfg.RecordInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pendulum.yaml")

	cfg := DefaultConfig()
	cfg.Integrator = "adaptive"
	cfg.Params.G = 1.62
	cfg.State.Omega2 = 2.5
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, key := range []string{"m1:", "m2:", "l1:", "l2:", "g:", "damping:", "theta1:", "omega2:"} {
		if !strings.Contains(text, key) {
			t.Errorf("saved config missing %q:\n%s", key, text)
		}
	}
	if strings.Index(text, "m1:") > strings.Index(text, "damping:") {
		t.Error("params keys are not in declaration order")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("params:\n  damping: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.Damping != 0.2 || cfg.Params.G != 9.81 || cfg.Dt != DefaultDt {
		t.Errorf("expected defaults merged with file values, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("params:\n  m1: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(bad)
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CHAOSPENDULUM_PARAMS_G", "1.62")
	t.Setenv("CHAOSPENDULUM_STATE_THETA1", "0.5")
	t.Setenv("CHAOSPENDULUM_STEPS", "42")
	t.Setenv("CHAOSPENDULUM_INTEGRATOR", "euler")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.G != 1.62 || cfg.State.Theta1 != 0.5 || cfg.Steps != 42 || cfg.Integrator != "euler" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Params.M1 != 1 {
		t.Error("unset keys must keep their values")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero interval", func(c *Config) { c.RecordInterval = 0 }},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"bad params", func(c *Config) { c.Params.L1 = 0 }},
		{"nan state", func(c *Config) { c.State.Omega1 = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPresets(t *testing.T) {
	if len(Presets) != 8 {
		t.Errorf("expected 8 presets, got %d", len(Presets))
	}
	for _, p := range Presets {
		if p.Name == "" || p.Description == "" {
			t.Errorf("preset %+v missing name or description", p)
		}
		if err := p.Params.Validate(); err != nil {
			t.Errorf("preset %s: %v", p.Name, err)
		}
		if !p.State.IsValid() {
			t.Errorf("preset %s: invalid state", p.Name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	p, ok := GetPreset("Small Angle")
	if !ok {
		t.Fatal("expected preset")
	}
	if p.State.Theta1 != -0.2 || p.State.Theta2 != -0.1 {
		t.Errorf("unexpected state %v", p.State)
	}

	if p, ok := GetPreset("low-gravity"); !ok || p.Params.G != 1.62 {
		t.Errorf("slug lookup failed: %+v %v", p, ok)
	}
	if p, ok := GetPreset("unequal masses"); !ok || p.Params.M2 != 3 {
		t.Errorf("case-insensitive lookup failed: %+v %v", p, ok)
	}
	if _, ok := GetPreset("Nonexistent"); ok {
		t.Error("expected no preset")
	}

	cfg := DefaultConfig()
	p.Apply(cfg)
	if cfg.State != p.State || cfg.Params != p.Params {
		t.Error("Apply did not copy state and params")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) || names[0] != "small-angle" || names[7] != "near-circular" {
		t.Errorf("unexpected preset list %v", names)
	}
}
