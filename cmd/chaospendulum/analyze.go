package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/shallvtalk/chaospendulum/internal/analysis"
	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/experiment"
)

var (
	periodTolerance float64
	minPeriod       int
	lyapunovWindow  int
	perturbation    float64
	showPortrait    bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "run a simulation and analyse its recorded history",
		Long: `Runs the configured simulation, then reports periodicity, two
Lyapunov estimates (nearest-neighbour over the recorded history and a
two-trajectory estimate), the dominant frequency of θ1 and, with
--portrait, the phase portrait and Poincaré section.`,
		Args: cobra.NoArgs,
		RunE: analyzeSimulation,
	}

	f := cmd.Flags()
	f.Float64Var(&periodTolerance, "period-tolerance", 0.01, "distance under which two phase samples count as equal")
	f.IntVar(&minPeriod, "min-period", 10, "shortest period, in samples, to look for")
	f.IntVar(&lyapunovWindow, "window", 20, "samples followed per nearest-neighbour pair")
	f.Float64Var(&perturbation, "perturbation", 1e-8, "initial separation for the two-trajectory estimate")
	f.BoolVar(&showPortrait, "portrait", false, "draw the phase portrait and Poincaré section")
	return cmd
}

func analyzeSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	reg := experiment.NewRegistry()

	exp, err := experiment.New(cfg, reg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, dynamo.ErrContextCanceled) {
		return err
	}

	stats := exp.Simulator().Statistics()
	history := stats.PhaseHistory()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d (every %d steps)\n", len(history), cfg.RecordInterval)

	if period, ok := stats.DetectPeriodicity(periodTolerance, minPeriod); ok {
		fmt.Fprintf(w, "period\t%d samples\n", period)
	} else {
		fmt.Fprintf(w, "period\tnone detected\n")
	}

	if lambda, ok := stats.EstimateLyapunov(lyapunovWindow); ok {
		fmt.Fprintf(w, "lyapunov (history)\t%.4f per sample\n", lambda)
	} else {
		fmt.Fprintf(w, "lyapunov (history)\tnot enough data\n")
	}

	strategy, err := reg.GetIntegrator(cfg.Integrator, cfg.Tolerance)
	if err != nil {
		return err
	}
	lambda := analysis.LyapunovExponent(strategy, cfg.State, cfg.Params, cfg.Dt, res.Steps, perturbation)
	fmt.Fprintf(w, "lyapunov (trajectories)\t%.4f 1/s\n", lambda)

	theta1 := make([]float64, len(history))
	for i, s := range history {
		theta1[i] = s.Theta1
	}
	sampleDt := cfg.Dt * float64(cfg.RecordInterval)
	if f, ok := analysis.DominantFrequency(theta1, sampleDt); ok {
		fmt.Fprintf(w, "dominant frequency\t%.4f Hz\n", f)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if spectrum := analysis.PowerSpectrum(theta1); len(spectrum) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("θ1 power spectrum"),
		))
	}

	if showPortrait {
		fmt.Println()
		fmt.Println("phase portrait (θ1, ω1)")
		fmt.Println(analysis.PhasePortraitToASCII(analysis.PhasePortrait(history, analysis.Pendulum1), 80, 24))

		section := analysis.PoincareSection(history)
		fmt.Printf("\npoincaré section (θ2, ω2 at θ1 = 0), %d crossings\n", len(section))
		if len(section) > 0 {
			fmt.Println(analysis.PhasePortraitToASCII(section, 80, 24))
		}
	}
	return nil
}
