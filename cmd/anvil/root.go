package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Anvil - declarative build-description front end",
	Long: `Anvil parses declarative YAML build descriptions into build graphs of
tools, nodes, targets, and tasks.

It provides:
  - Strict, position-aware schema validation (lint)
  - Build graph inspection (graph)
  - Graph snapshots persisted to SQLite (snapshot)
  - A watch daemon with scheduled sweeps and Prometheus metrics (watch)

Anvil only parses and validates; it never executes builds.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
