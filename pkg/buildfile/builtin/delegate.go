package builtin

import (
	"log/slog"

	"mercator-hq/anvil/pkg/buildfile"
	"mercator-hq/anvil/pkg/buildfile/diag"
)

// Delegate is the default buildfile.Delegate: it creates the builtin
// tools and file nodes, records the client configuration, and
// collects diagnostics instead of printing them.
//
// A Delegate is single-use, like the BuildFile it is attached to.
type Delegate struct {
	// ExpectedClientName optionally pins the client name the build
	// file must declare. When set, a mismatch rejects the client
	// configuration and aborts the load.
	ExpectedClientName string

	// Diagnostics collects every reported schema violation in order.
	Diagnostics []diag.Diagnostic

	// Client configuration as declared by the build file.
	ClientName       string
	ClientVersion    uint32
	ClientProperties []buildfile.Property

	logger *slog.Logger
}

// NewDelegate creates a delegate backed by the builtin tool set.
func NewDelegate() *Delegate {
	return &Delegate{
		logger: slog.Default().With("component", "buildfile.delegate"),
	}
}

// Error records a schema violation. Position-annotated messages are
// split back into a structured location.
func (d *Delegate) Error(file string, message string) {
	line, column, bare := diag.SplitAnnotation(message)
	d.Diagnostics = append(d.Diagnostics, diag.Diagnostic{
		Location: diag.Location{File: file, Line: line, Column: column},
		Message:  bare,
	})
}

// FirstError returns the first collected diagnostic as an error, or
// nil when the load reported none.
func (d *Delegate) FirstError() error {
	if len(d.Diagnostics) == 0 {
		return nil
	}
	return d.Diagnostics[0]
}

// LookupTool resolves a builtin tool type by name, returning nil for
// unrecognized names.
func (d *Delegate) LookupTool(name string) buildfile.Tool {
	switch name {
	case ToolShell:
		return NewShellTool(name)
	case ToolPhony:
		return NewPhonyTool(name)
	case ToolMkdir:
		return NewMkdirTool(name)
	default:
		return nil
	}
}

// LookupNode creates a file node for the given name.
func (d *Delegate) LookupNode(name string, isImplicit bool) buildfile.Node {
	return NewFileNode(name, isImplicit)
}

// ConfigureClient records the client section, rejecting it when an
// expected client name is pinned and does not match.
func (d *Delegate) ConfigureClient(name string, version uint32, properties []buildfile.Property) bool {
	if d.ExpectedClientName != "" && name != d.ExpectedClientName {
		d.logger.Debug("rejecting client configuration",
			"declared", name,
			"expected", d.ExpectedClientName,
		)
		return false
	}

	d.ClientName = name
	d.ClientVersion = version
	d.ClientProperties = properties
	return true
}

// LoadedTarget observes a successfully parsed target.
func (d *Delegate) LoadedTarget(name string, target *buildfile.Target) {
	d.logger.Debug("loaded target", "name", name, "nodes", len(target.NodeNames()))
}

// LoadedTask observes a successfully parsed task.
func (d *Delegate) LoadedTask(name string, task buildfile.Task) {
	d.logger.Debug("loaded task", "name", name)
}
