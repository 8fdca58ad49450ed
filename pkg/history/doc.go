// Package history keeps an append-only SQLite log of build-file
// parse runs: which file was linted, when, whether it passed, and
// the first diagnostic when it did not.
package history
