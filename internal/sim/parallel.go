package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/integrators"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
)

// Session describes one member of an ensemble. Strategy must be safe to
// share; the built-in strategies hold only read-only settings.
type Session struct {
	Name     string
	State    dynamo.State
	Params   dynamo.Params
	Strategy integrators.Strategy
	Dt       float64
	Steps    int
	Capacity int
}

// Outcome pairs a session's result with its recorded statistics.
type Outcome struct {
	Name   string
	Result *Result
	Stats  *metrics.Statistics
}

// Ensemble runs independent sessions concurrently. Each session is
// single-threaded and shares nothing with the others.
type Ensemble struct {
	log   *logrus.Logger
	limit int
}

// NewEnsemble returns an ensemble running at most limit sessions at a
// time; limit <= 0 means no limit.
func NewEnsemble(log *logrus.Logger, limit int) *Ensemble {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ensemble{log: log, limit: limit}
}

// Run returns outcomes in the order of sessions. The first failing
// session cancels the rest.
func (e *Ensemble) Run(ctx context.Context, sessions []Session) ([]Outcome, error) {
	outcomes := make([]Outcome, len(sessions))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, cfg := range sessions {
		g.Go(func() error {
			system, err := NewDoublePendulum(cfg.State, cfg.Params)
			if err != nil {
				return fmt.Errorf("session %q: %w", cfg.Name, err)
			}

			stats := metrics.NewStatistics(cfg.Capacity)
			s := New(system, integrators.NewEngine(cfg.Strategy, cfg.Dt), stats, WithLogger(e.log))
			s.AddMetric(metrics.NewEnergyDrift())

			res, err := s.Run(ctx, cfg.Steps)
			if err != nil {
				return fmt.Errorf("session %q: %w", cfg.Name, err)
			}
			outcomes[i] = Outcome{Name: cfg.Name, Result: res, Stats: stats}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
