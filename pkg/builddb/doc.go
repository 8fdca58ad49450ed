// Package builddb stores parsed build graphs as immutable snapshots
// in a SQLite database.
//
// A snapshot captures the tool, node, target, and task sets of one
// successfully loaded build file, keyed by a fresh UUID. Snapshots
// are append-only; the database is a record of what a build file
// described at a point in time, not a live graph store.
package builddb
