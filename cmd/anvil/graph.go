package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/anvil/pkg/buildfile"
	"mercator-hq/anvil/pkg/buildfile/builtin"
	"mercator-hq/anvil/pkg/cli"
)

var graphFlags struct {
	file string
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the parsed build graph",
	Long: `Parse a build file and print the resulting build graph.

The output lists the client declaration, the tools, every node with
its implicit flag, the targets with their node lists, and the tasks
with their tool, inputs, and outputs.

Examples:
  # Print the graph for a build file
  anvil graph --file build.anvil`,
	RunE: showGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphFlags.file, "file", "f", "", "build file to inspect")
	graphCmd.MarkFlagRequired("file")
}

func showGraph(cmd *cobra.Command, args []string) error {
	delegate := builtin.NewDelegate()
	bf := buildfile.New(graphFlags.file, delegate)
	if !bf.Load() {
		return cli.NewCommandError("graph", delegate.FirstError())
	}

	renderGraph(os.Stdout, bf, delegate)
	return nil
}

func renderGraph(w io.Writer, bf *buildfile.BuildFile, delegate *builtin.Delegate) {
	fmt.Fprintf(w, "client: %s (version %d)\n", delegate.ClientName, delegate.ClientVersion)

	fmt.Fprintln(w, "\ntools:")
	for _, name := range sortedGraphKeys(bf.Tools()) {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w, "\nnodes:")
	nodes := bf.Nodes()
	for _, name := range sortedGraphKeys(nodes) {
		if nodes[name].IsImplicit() {
			fmt.Fprintf(w, "  %s (implicit)\n", name)
		} else {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}

	fmt.Fprintln(w, "\ntargets:")
	targets := bf.Targets()
	for _, name := range sortedGraphKeys(targets) {
		fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(targets[name].NodeNames(), ", "))
	}

	fmt.Fprintln(w, "\ntasks:")
	tasks := bf.Tasks()
	for _, name := range sortedGraphKeys(tasks) {
		task := tasks[name]
		info, ok := task.(buildfile.TaskInfo)
		if !ok {
			fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s: tool=%s inputs=[%s] outputs=[%s]\n",
			name,
			info.ToolName(),
			joinNodeNames(info.Inputs()),
			joinNodeNames(info.Outputs()),
		)
	}
}

func sortedGraphKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinNodeNames(nodes []buildfile.Node) string {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name())
	}
	return strings.Join(names, ", ")
}
