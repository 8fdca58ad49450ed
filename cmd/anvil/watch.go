package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/anvil/pkg/buildfile"
	"mercator-hq/anvil/pkg/buildfile/builtin"
	"mercator-hq/anvil/pkg/cli"
	"mercator-hq/anvil/pkg/history"
	"mercator-hq/anvil/pkg/watch"
)

var watchFlags struct {
	path             string
	debounce         time.Duration
	schedule         string
	metricsAddr      string
	historyDB        string
	historyRetention time.Duration
	client           string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch build files and re-lint on change",
	Long: `Watch a build file or directory and re-lint whenever it changes.

File events are debounced so editor save bursts trigger a single
sweep. Optionally, full sweeps can run on a cron schedule, parse
metrics can be exported in Prometheus format, and every lint run can
be recorded to a SQLite history database.

Examples:
  # Watch a directory
  anvil watch --path ci/

  # Hourly full sweeps plus a metrics endpoint
  anvil watch --path ci/ --schedule "0 * * * *" --metrics-addr :9090

  # Record every lint run
  anvil watch --path ci/ --history-db runs.db`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.path, "path", "p", "", "build file or directory to watch")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 100*time.Millisecond, "quiet period after a file event")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic full sweeps")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "listen address for Prometheus metrics")
	watchCmd.Flags().StringVar(&watchFlags.historyDB, "history-db", "", "SQLite database recording lint runs")
	watchCmd.Flags().DurationVar(&watchFlags.historyRetention, "history-retention", 0, "delete recorded runs older than this (0 keeps everything)")
	watchCmd.Flags().StringVar(&watchFlags.client, "client", "", "required client name")
	watchCmd.MarkFlagRequired("path")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFlags.debounce < 0 {
		return cli.NewConfigError("debounce", "must not be negative")
	}

	var store *history.Store
	if watchFlags.historyDB != "" {
		var err error
		store, err = history.Open(watchFlags.historyDB)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer store.Close()
	}

	var metrics *watch.Metrics
	if watchFlags.metricsAddr != "" {
		metrics = watch.NewMetrics()
	}

	config := watch.DefaultConfig(watchFlags.path)
	config.DebounceInterval = watchFlags.debounce
	config.SweepSchedule = watchFlags.schedule
	config.MetricsAddr = watchFlags.metricsAddr

	lint := func(path string) error {
		start := time.Now()
		err := lintOnce(path, watchFlags.client, metrics)
		elapsed := time.Since(start)

		if store != nil {
			run := history.Run{File: path, OK: err == nil, Duration: elapsed}
			if err != nil {
				run.Message = err.Error()
			}
			if _, recErr := store.Record(context.Background(), run); recErr != nil {
				return fmt.Errorf("recording lint run: %w", recErr)
			}
		}
		return err
	}

	w, err := watch.New(config, lint, metrics)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx := cli.SetupSignalHandler()

	if store != nil && watchFlags.historyRetention > 0 {
		go pruneHistory(ctx, store, watchFlags.historyRetention)
	}


	if err := w.Run(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// pruneHistory enforces the run retention window hourly until the
// context is cancelled.
func pruneHistory(ctx context.Context, store *history.Store, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if _, err := store.Prune(ctx, retention); err != nil {
			slog.Default().Warn("history prune failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// lintOnce parses a single build file, reporting the first diagnostic
// as an error and updating the graph entity gauges on success.
func lintOnce(path, client string, metrics *watch.Metrics) error {
	delegate := builtin.NewDelegate()
	delegate.ExpectedClientName = client

	bf := buildfile.New(path, delegate)
	if !bf.Load() {
		return delegate.FirstError()
	}

	if metrics != nil {
		metrics.SetEntityCounts(len(bf.Tools()), len(bf.Nodes()), len(bf.Targets()), len(bf.Tasks()))
	}
	return nil
}
