package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shallvtalk/chaospendulum/internal/config"
	"github.com/shallvtalk/chaospendulum/internal/dynamo"
	"github.com/shallvtalk/chaospendulum/internal/physics"
)

var (
	configFile string
	presetName string
	logLevel   string
	integrator string
	dt         float64
	steps      int
	tolerance  float64
	overrides  []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "chaospendulum",
		Short:        "double pendulum simulation and chaos analysis",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&presetName, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&integrator, "integrator", "", "rk4, euler, adaptive or rk45")
	pf.Float64Var(&dt, "dt", 0, "time step in seconds")
	pf.IntVar(&steps, "steps", 0, "number of integration steps")
	pf.Float64Var(&tolerance, "tolerance", 0, "error tolerance for adaptive integrators")
	pf.StringSliceVar(&overrides, "set", nil, "override a parameter or initial state value, e.g. --set g=1.62,theta1=0.5")

	rootCmd.AddCommand(
		newRunCmd(),
		newAnalyzeCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newBifurcateCmd(),
		newPresetsCmd(),
		newLiveCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers, in order: defaults, config file, environment,
// preset, command-line flags and --set overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if presetName != "" {
		p, ok := config.GetPreset(presetName)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (see 'chaospendulum presets')", presetName)
		}
		p.Apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	for _, kv := range overrides {
		if err := applyOverride(cfg, kv); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverride(cfg *config.Config, kv string) error {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("--set %q: expected name=value", kv)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("--set %s: %w", name, err)
	}

	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "theta1":
		cfg.State.Theta1 = value
	case "theta2":
		cfg.State.Theta2 = value
	case "omega1":
		cfg.State.Omega1 = value
	case "omega2":
		cfg.State.Omega2 = value
	default:
		p, err := physics.WithParam(cfg.Params, name, value)
		if err != nil {
			return fmt.Errorf("--set: %w", err)
		}
		cfg.Params = p
	}
	return nil
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// signalContext is canceled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func formatState(x dynamo.State) string {
	return fmt.Sprintf("θ1=%+.4f θ2=%+.4f ω1=%+.4f ω2=%+.4f", x.Theta1, x.Theta2, x.Omega1, x.Omega2)
}
