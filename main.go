package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sheikhrachel/go-gol-interactive/controller"
	"github.com/sheikhrachel/go-gol-interactive/tui"
	"github.com/sheikhrachel/go-gol-interactive/utils"
)

var (
	configFile string
	logLevel   string
	logFile    string

	rows     int
	cols     int
	interval time.Duration
	density  float64
	seed     uint64

	generations  int
	stopOnStable bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "go-gol",
		Short:        "interactive Conway's Game of Life",
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file")
	flags.IntVar(&rows, "rows", 0, "grid rows")
	flags.IntVar(&cols, "cols", 0, "grid columns")
	flags.DurationVar(&interval, "interval", 0, "time between generations")
	flags.Float64Var(&density, "density", 0, "probability of a cell being alive when seeding")
	flags.Uint64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run without interaction, printing every generation",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&generations, "generations", 100, "stop after this many generations (0 runs until interrupted)")
	runCmd.Flags().BoolVar(&stopOnStable, "stop-on-stable", false, "stop once the grid settles into a still life or short cycle")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	rootCmd.AddCommand(runCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs only go to an explicit file
	logger, closeLog, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	ctrl, err := controller.New(cfg, controller.WithLogger(logger))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := tui.Run(ctrl, cfg, tea.WithContext(cmd.Context())); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "[runInteractive] interactive session failed")
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctrl, err := controller.New(cfg, controller.WithLogger(logger))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	return playHeadless(cmd.Context(), ctrl, cfg, cmd.OutOrStdout(), generations, stopOnStable)
}

// loadConfig merges defaults, the config file and explicitly set flags
func loadConfig(cmd *cobra.Command) (utils.Config, error) {
	cfg := utils.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = utils.LoadConfig(configFile); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	return cfg, cfg.Validate()
}
