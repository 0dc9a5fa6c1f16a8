package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

const (
	DefaultDt             = 1e-3
	DefaultSteps          = 10000
	DefaultTolerance      = 1e-9
	DefaultRecordInterval = 5
	DefaultCapacity       = 2000
	DefaultWarnThreshold  = 1e-3

	// EnvPrefix is prepended to every environment override, e.g.
	// CHAOSPENDULUM_PARAMS_G=1.62.
	EnvPrefix = "CHAOSPENDULUM"
)

type Config struct {
	Integrator     string        `yaml:"integrator"`
	Dt             float64       `yaml:"dt"`
	Steps          int           `yaml:"steps"`
	Tolerance      float64       `yaml:"tolerance"`
	RecordInterval int           `yaml:"record_interval"`
	Capacity       int           `yaml:"history_capacity"`
	WarnThreshold  float64       `yaml:"warn_threshold"`
	LogLevel       string        `yaml:"log_level"`
	Params         dynamo.Params `yaml:"params"`
	State          dynamo.State  `yaml:"state"`
}

// DefaultConfig starts both arms tilted (θ1=-π/6, θ2=-π/4) at rest with
// default parameters.
func DefaultConfig() *Config {
	return &Config{
		Integrator:     "rk4",
		Dt:             DefaultDt,
		Steps:          DefaultSteps,
		Tolerance:      DefaultTolerance,
		RecordInterval: DefaultRecordInterval,
		Capacity:       DefaultCapacity,
		WarnThreshold:  DefaultWarnThreshold,
		LogLevel:       "info",
		Params:         dynamo.DefaultParams(),
		State:          dynamo.AtRest(-math.Pi/6, -math.Pi/4),
	}
}

// Load reads a YAML file over the defaults and then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from CHAOSPENDULUM_* variables. Nested keys
// use an underscore: CHAOSPENDULUM_STATE_THETA1.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	strs := map[string]*string{
		"integrator": &c.Integrator,
		"log_level":  &c.LogLevel,
	}
	ints := map[string]*int{
		"steps":            &c.Steps,
		"record_interval":  &c.RecordInterval,
		"history_capacity": &c.Capacity,
	}
	floats := map[string]*float64{
		"dt":             &c.Dt,
		"tolerance":      &c.Tolerance,
		"warn_threshold": &c.WarnThreshold,
		"params.m1":      &c.Params.M1,
		"params.m2":      &c.Params.M2,
		"params.l1":      &c.Params.L1,
		"params.l2":      &c.Params.L2,
		"params.g":       &c.Params.G,
		"params.damping": &c.Params.Damping,
		"state.theta1":   &c.State.Theta1,
		"state.theta2":   &c.State.Theta2,
		"state.omega1":   &c.State.Omega1,
		"state.omega2":   &c.State.Omega2,
	}

	for key, dst := range strs {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	for key, dst := range ints {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	for key, dst := range floats {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !c.State.IsValid() {
		errs = append(errs, fmt.Errorf("state %v: %w", c.State, dynamo.ErrInvalidState))
	}
	if !(c.Dt > 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if c.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must be non-negative, got %d", c.Steps))
	}
	if c.RecordInterval < 1 {
		errs = append(errs, fmt.Errorf("record_interval must be at least 1, got %d", c.RecordInterval))
	}
	if c.Capacity < 1 {
		errs = append(errs, fmt.Errorf("history_capacity must be at least 1, got %d", c.Capacity))
	}
	return errors.Join(errs...)
}
