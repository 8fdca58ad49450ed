package builtin

import "mercator-hq/anvil/pkg/buildfile"

// taskBase carries the state shared by all builtin tasks and
// implements the configuration and introspection surface; concrete
// tasks embed it and add their own attribute handling.
type taskBase struct {
	name    string
	tool    string
	inputs  []buildfile.Node
	outputs []buildfile.Node
	attrs   []buildfile.Property
}

// Name returns the task's name.
func (t *taskBase) Name() string { return t.name }

// ToolName returns the name of the tool the task is bound to.
func (t *taskBase) ToolName() string { return t.tool }

// ConfigureInputs installs the ordered input node list.
func (t *taskBase) ConfigureInputs(inputs []buildfile.Node) { t.inputs = inputs }

// ConfigureOutputs installs the ordered output node list.
func (t *taskBase) ConfigureOutputs(outputs []buildfile.Node) { t.outputs = outputs }

// Inputs returns the configured input nodes in declaration order.
func (t *taskBase) Inputs() []buildfile.Node { return t.inputs }

// Outputs returns the configured output nodes in declaration order.
func (t *taskBase) Outputs() []buildfile.Node { return t.outputs }

// Attributes returns the accepted attributes in declaration order.
func (t *taskBase) Attributes() []buildfile.Property { return t.attrs }

// record remembers an accepted attribute for introspection.
func (t *taskBase) record(key, value string) {
	t.attrs = append(t.attrs, buildfile.Property{Key: key, Value: value})
}

// ShellTask is a build action that runs a command line.
type ShellTask struct {
	taskBase
	args        string
	description string
}

// Args returns the configured command line.
func (t *ShellTask) Args() string { return t.args }

// Description returns the configured human-readable description.
func (t *ShellTask) Description() string { return t.description }

// ConfigureAttribute applies a task attribute. Recognized attributes
// are args and description.
func (t *ShellTask) ConfigureAttribute(key, value string) bool {
	switch key {
	case "args":
		t.args = value
	case "description":
		t.description = value
	default:
		return false
	}
	t.record(key, value)
	return true
}

// PhonyTask is a grouping no-op action; it accepts no attributes
// beyond its inputs and outputs.
type PhonyTask struct {
	taskBase
}

// ConfigureAttribute rejects every attribute.
func (t *PhonyTask) ConfigureAttribute(key, value string) bool { return false }

// MkdirTask is a build action that creates its output directories.
type MkdirTask struct {
	taskBase
	description string
}

// Description returns the configured human-readable description.
func (t *MkdirTask) Description() string { return t.description }

// ConfigureAttribute applies a task attribute. The only recognized
// attribute is description.
func (t *MkdirTask) ConfigureAttribute(key, value string) bool {
	if key != "description" {
		return false
	}
	t.description = value
	t.record(key, value)
	return true
}
