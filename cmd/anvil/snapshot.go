package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"mercator-hq/anvil/pkg/builddb"
	"mercator-hq/anvil/pkg/buildfile"
	"mercator-hq/anvil/pkg/buildfile/builtin"
	"mercator-hq/anvil/pkg/cli"
)

var snapshotFlags struct {
	file string
	db   string
	list bool
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Persist and list build graph snapshots",
	Long: `Parse a build file and store the resulting build graph as an
immutable snapshot in a SQLite database, or list previously stored
snapshots.

Examples:
  # Store a snapshot
  anvil snapshot --file build.anvil --db anvil.db

  # List stored snapshots
  anvil snapshot --db anvil.db --list`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotFlags.file, "file", "f", "", "build file to snapshot")
	snapshotCmd.Flags().StringVar(&snapshotFlags.db, "db", "anvil.db", "snapshot database path")
	snapshotCmd.Flags().BoolVar(&snapshotFlags.list, "list", false, "list stored snapshots")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotFlags.list {
		return listSnapshots()
	}

	if snapshotFlags.file == "" {
		return fmt.Errorf("--file must be specified (or use --list)")
	}

	delegate := builtin.NewDelegate()
	bf := buildfile.New(snapshotFlags.file, delegate)
	if !bf.Load() {
		return cli.NewCommandError("snapshot", delegate.FirstError())
	}

	db, err := builddb.Open(snapshotFlags.db)
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}
	defer db.Close()

	id, err := db.SaveSnapshot(context.Background(), bf, delegate.ClientName)
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}

	fmt.Printf("Stored snapshot %s of %s (%d tools, %d nodes, %d targets, %d tasks)\n",
		id, snapshotFlags.file,
		len(bf.Tools()), len(bf.Nodes()), len(bf.Targets()), len(bf.Tasks()))
	return nil
}

func listSnapshots() error {
	db, err := builddb.Open(snapshotFlags.db)
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}
	defer db.Close()

	snapshots, err := db.Snapshots(context.Background())
	if err != nil {
		return cli.NewCommandError("snapshot", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots stored.")
		return nil
	}

	for _, s := range snapshots {
		fmt.Printf("%s  %s  client=%s  %d tools, %d nodes, %d targets, %d tasks  %s\n",
			s.ID, s.SourceFile, s.ClientName,
			s.NumTools, s.NumNodes, s.NumTargets, s.NumTasks,
			s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
