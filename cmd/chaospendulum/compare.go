package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shallvtalk/chaospendulum/internal/experiment"
	"github.com/shallvtalk/chaospendulum/internal/sim"
)

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "run the same initial state through several integrators",
		Long:  "Runs every named integrator (all registered ones by default) concurrently from the configured state and compares energy behaviour.",
		RunE:  compareIntegrators,
	}
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	reg := experiment.NewRegistry()

	names := args
	if len(names) == 0 {
		names = reg.ListIntegrators()
	}

	sessions := make([]sim.Session, 0, len(names))
	for _, name := range names {
		strategy, err := reg.GetIntegrator(name, cfg.Tolerance)
		if err != nil {
			return err
		}
		sessions = append(sessions, sim.Session{
			Name:     name,
			State:    cfg.State,
			Params:   cfg.Params,
			Strategy: strategy,
			Dt:       cfg.Dt,
			Steps:    cfg.Steps,
			Capacity: cfg.Capacity,
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	outcomes, err := sim.NewEnsemble(log, runtime.NumCPU()).Run(ctx, sessions)
	if err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debug("comparison finished")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "integrator\ttime (s)\tθ1\tθ2\tmax step error\tenergy drift\tenergy σ\t")
	for _, o := range outcomes {
		sd, _ := o.Stats.EnergyConservation()
		fmt.Fprintf(w, "%s\t%.3f\t%+.4f\t%+.4f\t%.3e\t%.3e\t%.3e\t\n",
			o.Name, o.Result.Time, o.Result.Final.Theta1, o.Result.Final.Theta2,
			o.Result.MaxEnergyError, o.Result.Metrics["energy_drift"], sd)
	}
	return w.Flush()
}
