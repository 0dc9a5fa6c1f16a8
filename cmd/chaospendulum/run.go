package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/experiment"
	"github.com/shallvtalk/chaospendulum/internal/metrics"
	"github.com/shallvtalk/chaospendulum/internal/report"
	"github.com/shallvtalk/chaospendulum/internal/sim"
)

var (
	plotEnergy  bool
	jsonOutput  bool
	withHistory bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	f := cmd.Flags()
	f.BoolVar(&plotEnergy, "plot", false, "plot energy and angle histories")
	f.BoolVar(&jsonOutput, "json", false, "print a JSON report instead of the table")
	f.BoolVar(&withHistory, "history", false, "include recorded histories in the JSON report")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	exp, err := experiment.New(cfg, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := exp.Run(ctx)
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, dynamo.ErrContextCanceled) {
		return err
	}
	if err != nil {
		log.WithError(err).Warn("interrupted, reporting partial run")
	}

	s := exp.Simulator()
	if jsonOutput {
		return report.Build(s, res, report.Options{
			IncludeHistory:  withHistory,
			PeriodTolerance: 0.01,
			MinPeriod:       10,
			LyapunovWindow:  20,
		}).WriteJSON(os.Stdout)
	}
	if err := printSummary(res, s, elapsed); err != nil {
		return err
	}
	if plotEnergy {
		printHistoryPlots(s.Statistics())
	}
	return nil
}

func printSummary(res *sim.Result, s *sim.Simulator, elapsed time.Duration) error {
	stats := s.Statistics()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "session\t%s\n", res.Session)
	fmt.Fprintf(w, "integrator\t%s\n", s.Engine().Name())
	fmt.Fprintf(w, "steps\t%d\n", res.Steps)
	fmt.Fprintf(w, "simulated\t%.4fs\n", res.Time)
	fmt.Fprintf(w, "wall time\t%v\n", elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "final state\t%s\n", formatState(res.Final))

	if e, ok := stats.CurrentTotalEnergy(); ok {
		ke, _ := stats.CurrentKineticEnergy()
		pe, _ := stats.CurrentPotentialEnergy()
		fmt.Fprintf(w, "energy\t%.6f J (KE %.6f, PE %.6f)\n", e, ke, pe)
	}
	if lo, ok := stats.MinTotalEnergy(); ok {
		hi, _ := stats.MaxTotalEnergy()
		mean, _ := stats.MeanTotalEnergy()
		fmt.Fprintf(w, "energy range\t[%.6f, %.6f] mean %.6f\n", lo, hi, mean)
	}
	if sd, ok := stats.EnergyConservation(); ok {
		fmt.Fprintf(w, "energy σ\t%.3e\n", sd)
	}
	fmt.Fprintf(w, "max step error\t%.3e\n", res.MaxEnergyError)
	for _, name := range slices.Sorted(maps.Keys(res.Metrics)) {
		fmt.Fprintf(w, "%s\t%.4e\n", name, res.Metrics[name])
	}
	return w.Flush()
}

func printHistoryPlots(stats *metrics.Statistics) {
	energy := stats.EnergyHistory()
	phase := stats.PhaseHistory()
	if len(energy) < 2 {
		return
	}

	totals := make([]float64, len(energy))
	for i, e := range energy {
		totals[i] = e.Total
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(totals,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy (J)"),
	))

	theta1 := make([]float64, len(phase))
	theta2 := make([]float64, len(phase))
	for i, p := range phase {
		theta1[i], theta2[i] = p.Theta1, p.Theta2
	}
	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{theta1, theta2},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Magenta),
		asciigraph.Caption("θ1 (cyan) and θ2 (magenta), rad"),
	))
}
