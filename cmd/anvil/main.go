// Anvil is a front end for declarative build descriptions.
//
// It parses YAML build files describing tools, nodes, targets, and
// tasks into an in-memory build graph, and provides tooling around
// that graph:
//   - Schema validation with position-aware diagnostics
//   - Build graph inspection
//   - Graph snapshots persisted to SQLite
//   - A watch daemon that re-lints on change and exports metrics
//
// Usage:
//
//	# Validate a build file
//	anvil lint --file build.anvil
//
//	# Validate every build file under a directory, as JSON
//	anvil lint --dir ./ci --format json
//
//	# Inspect the parsed build graph
//	anvil graph --file build.anvil
//
//	# Persist a graph snapshot
//	anvil snapshot --file build.anvil --db anvil.db
//
//	# Watch a directory, re-lint on change, export metrics
//	anvil watch --path ./ci --metrics-addr :9090
//
//	# Show version information
//	anvil version
package main

func main() {
	Execute()
}
