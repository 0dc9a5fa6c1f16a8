package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shallvtalk/chaospendulum/internal/analysis"
	"github.com/shallvtalk/chaospendulum/internal/config"
	"github.com/shallvtalk/chaospendulum/internal/experiment"
	"github.com/shallvtalk/chaospendulum/internal/physics"
	"github.com/shallvtalk/chaospendulum/internal/sim"
)

var (
	sweepPoints   int
	bifPoints     int
	bifTransient  int
	bifRecord     int
	bifResolution float64
)

type paramRange struct {
	name     string
	min, max float64
}

func parseRange(args []string) (paramRange, error) {
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return paramRange{}, fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return paramRange{}, fmt.Errorf("max: %w", err)
	}
	if hi < lo {
		return paramRange{}, fmt.Errorf("max %g is below min %g", hi, lo)
	}
	return paramRange{name: args[0], min: lo, max: hi}, nil
}

func (r paramRange) values(n int) []float64 {
	if n < 2 || r.max == r.min {
		return []float64{r.min}
	}
	out := make([]float64, n)
	stride := (r.max - r.min) / float64(n-1)
	for i := range out {
		out[i] = r.min + float64(i)*stride
	}
	return out
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep <param> <min> <max>",
		Short: "run one simulation per parameter value and tabulate chaos indicators",
		Args:  cobra.ExactArgs(3),
		RunE:  sweepParameter,
	}
	cmd.Flags().IntVar(&sweepPoints, "points", 8, "number of parameter values")
	return cmd
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := parseRange(args)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	reg := experiment.NewRegistry()

	values := r.values(sweepPoints)
	sessions := make([]sim.Session, 0, len(values))
	for _, v := range values {
		p, err := physics.WithParam(cfg.Params, r.name, v)
		if err != nil {
			return err
		}
		strategy, err := reg.GetIntegrator(cfg.Integrator, cfg.Tolerance)
		if err != nil {
			return err
		}
		sessions = append(sessions, sim.Session{
			Name:     strconv.FormatFloat(v, 'g', 6, 64),
			State:    cfg.State,
			Params:   p,
			Strategy: strategy,
			Dt:       cfg.Dt,
			Steps:    cfg.Steps,
			Capacity: cfg.Capacity,
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	outcomes, err := sim.NewEnsemble(log, runtime.NumCPU()).Run(ctx, sessions)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\tenergy drift\tlyapunov/sample\tperiod\t\n", r.name)
	for _, o := range outcomes {
		lyap := "-"
		if l, ok := o.Stats.EstimateLyapunov(20); ok {
			lyap = fmt.Sprintf("%.4f", l)
		}
		period := "-"
		if n, ok := o.Stats.DetectPeriodicity(0.01, 10); ok {
			period = strconv.Itoa(n)
		}
		fmt.Fprintf(w, "%s\t%.3e\t%s\t%s\t\n", o.Name, o.Result.Metrics["energy_drift"], lyap, period)
	}
	return w.Flush()
}

func newBifurcateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bifurcate <param> <min> <max>",
		Short: "draw a bifurcation diagram from Poincaré crossings",
		Args:  cobra.ExactArgs(3),
		RunE:  bifurcate,
	}

	f := cmd.Flags()
	f.IntVar(&bifPoints, "points", 60, "number of parameter values")
	f.IntVar(&bifTransient, "transient", 20000, "steps discarded before recording")
	f.IntVar(&bifRecord, "record", 20000, "steps recorded per parameter value")
	f.Float64Var(&bifResolution, "resolution", 1e-3, "merge section values closer than this")
	return cmd
}

func bifurcate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := parseRange(args)
	if err != nil {
		return err
	}

	strategy, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator, cfg.Tolerance)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	log.WithField("param", r.name).WithField("points", bifPoints).Info("computing bifurcation diagram")

	data, err := analysis.BifurcationDiagram(strategy, cfg.Params, cfg.State, analysis.Sweep{
		Param:      r.name,
		Min:        r.min,
		Max:        r.max,
		Steps:      bifPoints,
		Dt:         cfg.Dt,
		Transient:  bifTransient,
		Record:     bifRecord,
		Resolution: bifResolution,
	})
	if err != nil {
		return err
	}

	fmt.Printf("θ2 at θ1 = 0 against %s in [%g, %g]\n", r.name, r.min, r.max)
	fmt.Println(analysis.BifurcationToASCII(data, 80, 24))
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tθ1\tθ2\tDESCRIPTION")
			for _, p := range config.Presets {
				fmt.Fprintf(w, "%s\t%+.3f\t%+.3f\t%s\n", p.Slug(), p.State.Theta1, p.State.Theta2, p.Description)
			}
			return w.Flush()
		},
	}
}
