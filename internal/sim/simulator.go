package sim

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
)

const (
	DefaultRecordInterval = 5
	DefaultWarnThreshold  = 1e-3
)

// Simulator drives one session: it steps the pendulum through the engine,
// advances time, records a sample into the statistics every
// RecordInterval steps and notifies metrics and observers. A Simulator is
// not safe for concurrent use.
type Simulator struct {
	id             string
	system         *DoublePendulum
	engine         *integrators.Engine
	stats          *metrics.Statistics
	log            *logrus.Entry
	recordInterval int
	warnThreshold  float64

	steps     int
	lastErr   float64
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

type Option func(*Simulator)

func WithLogger(l *logrus.Logger) Option {
	return func(s *Simulator) { s.log = logrus.NewEntry(l) }
}

func WithRecordInterval(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.recordInterval = n
		}
	}
}

// WithWarnThreshold sets the per-step energy error above which a warning
// is logged. Zero disables the warning.
func WithWarnThreshold(v float64) Option {
	return func(s *Simulator) { s.warnThreshold = v }
}

func WithSessionID(id string) Option {
	return func(s *Simulator) { s.id = id }
}

// New creates a session and records the initial sample.
func New(system *DoublePendulum, engine *integrators.Engine, stats *metrics.Statistics, opts ...Option) *Simulator {
	s := &Simulator{
		id:             uuid.NewString(),
		system:         system,
		engine:         engine,
		stats:          stats,
		log:            logrus.NewEntry(logrus.StandardLogger()),
		recordInterval: DefaultRecordInterval,
		warnThreshold:  DefaultWarnThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("session", s.id)

	s.record()
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) ID() string                      { return s.id }
func (s *Simulator) System() *DoublePendulum         { return s.system }
func (s *Simulator) Engine() *integrators.Engine     { return s.engine }
func (s *Simulator) Statistics() *metrics.Statistics { return s.stats }
func (s *Simulator) Steps() int                      { return s.steps }

// LastEnergyError is the relative energy error of the most recent step.
func (s *Simulator) LastEnergyError() float64 { return s.lastErr }

// Step performs one integration step. A non-finite result is rejected
// and the pendulum keeps its previous state.
func (s *Simulator) Step() error {
	sys := s.system
	next, energyErr := s.engine.Step(sys.State, sys.Params)
	if !next.IsValid() {
		return &dynamo.SimulationError{
			Step:    s.steps + 1,
			Time:    sys.Time,
			State:   sys.State,
			Wrapped: dynamo.ErrInvalidState,
		}
	}

	sys.State = next
	sys.AdvanceTime(s.engine.LastStepSize())
	s.steps++
	s.lastErr = energyErr

	if s.warnThreshold > 0 && energyErr > s.warnThreshold {
		s.log.WithFields(logrus.Fields{
			"step":         s.steps,
			"t":            sys.Time,
			"energy_error": energyErr,
		}).Warn("energy error above threshold")
	}

	if s.steps%s.recordInterval == 0 {
		s.record()
	}
	for _, m := range s.metrics {
		m.Observe(sys.State, sys.Params, sys.Time)
	}
	for _, o := range s.observers {
		o.OnStep(sys.State, sys.Time, energyErr)
	}
	return nil
}

// Run performs up to steps steps, checking ctx between them. On
// cancellation it returns the partial result together with an error
// wrapping dynamo.ErrContextCanceled.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d", steps)
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.system.State, s.system.Params, s.system.Time)
	}

	s.log.WithFields(logrus.Fields{
		"steps":    steps,
		"strategy": s.engine.Name(),
		"dt":       s.engine.TimeStep(),
	}).Debug("run started")

	maxErr := 0.0
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			s.log.WithField("step", s.steps).Info("run canceled")
			return s.result(maxErr), fmt.Errorf("%w after %d steps: %w", dynamo.ErrContextCanceled, i, err)
		}
		if err := s.Step(); err != nil {
			s.log.WithError(err).Error("run aborted")
			return s.result(maxErr), err
		}
		maxErr = max(maxErr, s.lastErr)
	}

	res := s.result(maxErr)
	s.log.WithFields(logrus.Fields{
		"t":                res.Time,
		"max_energy_error": maxErr,
	}).Debug("run finished")
	return res, nil
}

// Reset restarts the session from x: time goes back to zero, histories
// are cleared and the initial sample is recorded.
func (s *Simulator) Reset(x dynamo.State) error {
	if !x.IsValid() {
		return fmt.Errorf("reset to %v: %w", x, dynamo.ErrInvalidState)
	}
	s.system.Reset(x)
	s.stats.ClearHistory()
	s.steps = 0
	s.lastErr = 0
	for _, m := range s.metrics {
		m.Reset()
	}
	s.record()
	return nil
}

// SetParams swaps the parameter set after validating it. On error the
// current parameters stay in place.
func (s *Simulator) SetParams(p dynamo.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.system.Params = p
	return nil
}

func (s *Simulator) record() {
	s.stats.Record(s.system.State, s.system.Params)
}

func (s *Simulator) result(maxErr float64) *Result {
	res := &Result{
		Session:        s.id,
		Steps:          s.steps,
		Time:           s.system.Time,
		Final:          s.system.State,
		MaxEnergyError: maxErr,
		Metrics:        make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
