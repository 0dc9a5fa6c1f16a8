package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shallvtalk/chaospendulum/internal/config"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
	"github.com/shallvtalk/chaospendulum/internal/sim"
)

// Experiment is one configured session ready to run.
type Experiment struct {
	cfg       config.Config
	simulator *sim.Simulator
}

// New wires a simulator from cfg: the named integrator, a statistics
// store of the configured capacity and the registry's default metrics.
func New(cfg *config.Config, reg *Registry, log *logrus.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, err := reg.GetIntegrator(cfg.Integrator, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	system, err := sim.NewDoublePendulum(cfg.State, cfg.Params)
	if err != nil {
		return nil, err
	}

	s := sim.New(
		system,
		integrators.NewEngine(strategy, cfg.Dt),
		metrics.NewStatistics(cfg.Capacity),
		sim.WithLogger(log),
		sim.WithRecordInterval(cfg.RecordInterval),
		sim.WithWarnThreshold(cfg.WarnThreshold),
	)
	for _, m := range reg.DefaultMetrics() {
		s.AddMetric(m)
	}

	return &Experiment{cfg: *cfg, simulator: s}, nil
}

// Run performs the configured number of steps.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.simulator.Run(ctx, e.cfg.Steps)
}

func (e *Experiment) Config() config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
