package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-interactive/controller"
	"github.com/sheikhrachel/go-gol-interactive/logging"
	"github.com/sheikhrachel/go-gol-interactive/model"
	"github.com/sheikhrachel/go-gol-interactive/utils"
)

// newLogger writes to --log-file when given, otherwise to fallback (nil discards)
func newLogger(cfg utils.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	if logFile == "" {
		return logging.NewLogger(cfg.LogLevel, fallback), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[newLogger] failed to open log file: %+v", logFile)
	}
	return logging.NewLogger(cfg.LogLevel, f), func() { f.Close() }, nil
}

// playHeadless renders every published snapshot until the generation limit, a
// stable pattern (when requested) or ctx cancellation
func playHeadless(
	ctx context.Context,
	ctrl *controller.Controller,
	cfg utils.Config,
	out io.Writer,
	maxGenerations int,
	stopOnStable bool,
) error {
	var (
		renderer  = model.NewTerminalRenderer(out)
		stats     = utils.NewStats(1)
		history   = utils.NewHistory(cfg.HistorySize)
		lastFrame = time.Now()
	)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nShutting down gracefully...")
			displayFinalStats(out, stats)
			return nil

		case snap, ok := <-ctrl.Updates():
			if !ok {
				return nil
			}

			frameStart := time.Now()
			stats.Update(snap.Generation, snap.Population, frameStart.Sub(lastFrame))
			lastFrame = frameStart
			period := history.Observe(snap.Grid.Hash())

			if err := renderer.Clear(); err != nil {
				return errors.Wrap(err, "[playHeadless] failed to clear screen")
			}
			displayGameStatus(out, snap, stats, period)
			if err := renderer.Display(snap.Grid); err != nil {
				return errors.Wrap(err, "[playHeadless] failed to render grid")
			}

			if maxGenerations > 0 && snap.Generation >= maxGenerations {
				fmt.Fprintf(out, "\nReached generation limit (%d)\n", maxGenerations)
				displayFinalStats(out, stats)
				return nil
			}
			if stopOnStable && (period > 0 || snap.Population == 0) {
				fmt.Fprintf(out, "\nGrid settled: %s\n", describe(snap, period))
				displayFinalStats(out, stats)
				return nil
			}
		}
	}
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, snap controller.Snapshot, stats *utils.Stats, period int) {
	density := float64(snap.Population) / float64(snap.Rows*snap.Cols) * 100
	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		snap.Generation, snap.Population, density, describe(snap, period))
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Interval: %s | Runtime: %.1fs\n\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, snap.Interval, time.Since(stats.StartTime).Seconds())
}

func displayFinalStats(out io.Writer, stats *utils.Stats) {
	fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds, %.1f avg population\n",
		stats.TotalGenerations, time.Since(stats.StartTime).Seconds(), stats.AveragePopulation)
}

func describe(snap controller.Snapshot, period int) string {
	switch {
	case snap.Population == 0:
		return "Extinct"
	case period == 1:
		return "Still life"
	case period > 1:
		return fmt.Sprintf("Oscillating (period %d)", period)
	case !snap.Running:
		return "Paused"
	}
	return "Active"
}
