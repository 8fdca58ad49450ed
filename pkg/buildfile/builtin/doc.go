// Package builtin provides the default host side of the buildfile
// parser: a small set of concrete tools (shell, phony, mkdir), a file
// node type, and a Delegate wiring them together that collects
// diagnostics rather than printing them.
//
// The package makes the parser usable as a standalone linter; hosts
// with their own tool semantics implement buildfile.Delegate directly
// and never need this package.
package builtin
