// Package report renders a finished run as JSON for downstream tooling.
package report

import (
	"encoding/json"
	"io"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
	"github.com/shallvtalk/chaospendulum/internal/sim"
)

type Report struct {
	Session    string             `json:"session"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Time       float64            `json:"time"`
	Params     dynamo.Params      `json:"params"`
	Final      dynamo.State       `json:"final"`
	Energy     *EnergySummary     `json:"energy,omitempty"`
	MaxError   float64            `json:"max_energy_error"`
	Metrics    map[string]float64 `json:"metrics"`
	Period     int                `json:"period,omitempty"`
	Lyapunov   *float64           `json:"lyapunov,omitempty"`

	History *History `json:"history,omitempty"`
}

type EnergySummary struct {
	Current      float64 `json:"current"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Conservation float64 `json:"conservation"`
}

type History struct {
	Energy     []dynamo.EnergySample     `json:"energy"`
	Trajectory []dynamo.TrajectorySample `json:"trajectory"`
	Phase      []dynamo.PhaseSample      `json:"phase"`
}

// Options control which derived values are computed.
type Options struct {
	IncludeHistory  bool
	PeriodTolerance float64
	MinPeriod       int
	LyapunovWindow  int
}

// Build summarises s after res was produced by it.
func Build(s *sim.Simulator, res *sim.Result, opts Options) *Report {
	stats := s.Statistics()
	r := &Report{
		Session:    res.Session,
		Integrator: s.Engine().Name(),
		Dt:         s.Engine().TimeStep(),
		Steps:      res.Steps,
		Time:       res.Time,
		Params:     s.System().Params,
		Final:      res.Final,
		MaxError:   res.MaxEnergyError,
		Metrics:    res.Metrics,
		Energy:     summarise(stats),
	}

	if opts.MinPeriod > 0 {
		if p, ok := stats.DetectPeriodicity(opts.PeriodTolerance, opts.MinPeriod); ok {
			r.Period = p
		}
	}
	if opts.LyapunovWindow > 0 {
		if l, ok := stats.EstimateLyapunov(opts.LyapunovWindow); ok {
			r.Lyapunov = &l
		}
	}
	if opts.IncludeHistory {
		r.History = &History{
			Energy:     stats.EnergyHistory(),
			Trajectory: stats.TrajectoryHistory(),
			Phase:      stats.PhaseHistory(),
		}
	}
	return r
}

func summarise(stats *metrics.Statistics) *EnergySummary {
	cur, ok := stats.CurrentTotalEnergy()
	if !ok {
		return nil
	}
	lo, _ := stats.MinTotalEnergy()
	hi, _ := stats.MaxTotalEnergy()
	mean, _ := stats.MeanTotalEnergy()
	sd, _ := stats.EnergyConservation()
	return &EnergySummary{Current: cur, Min: lo, Max: hi, Mean: mean, Conservation: sd}
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
