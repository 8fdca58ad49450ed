// Package watch implements the anvil watch daemon: it re-lints build
// files when they change on disk, runs optional scheduled full
// sweeps, and exposes parse metrics in Prometheus format.
//
// File events are debounced so that editor save bursts trigger a
// single sweep. The daemon never executes builds; it only parses.
package watch
