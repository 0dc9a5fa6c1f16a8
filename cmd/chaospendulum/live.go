package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shallvtalk/chaospendulum/internal/config"
	"github.com/shallvtalk/chaospendulum/internal/tui"
)

var (
	liveLogFile string
	forceWrite  bool
)

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "animate the pendulum in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			// The terminal belongs to the UI; log to a file or nowhere.
			log.SetOutput(io.Discard)
			if liveLogFile != "" {
				f, err := os.OpenFile(liveLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				log.SetOutput(f)
				log.SetFormatter(&logrus.JSONFormatter{})
			}
			return tui.Run(cfg, log)
		},
	}
	cmd.Flags().StringVar(&liveLogFile, "log-file", "", "write logs to this file while the UI runs")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "chaospendulum.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !forceWrite {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&forceWrite, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
