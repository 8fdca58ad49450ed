package builtin

import "mercator-hq/anvil/pkg/buildfile"

// Builtin tool type names recognized by the default delegate.
const (
	ToolShell = "shell"
	ToolPhony = "phony"
	ToolMkdir = "mkdir"
)

// ShellTool creates tasks that run a command line through a shell.
type ShellTool struct {
	name  string
	shell string
}

// NewShellTool creates a shell tool with the default /bin/sh shell.
func NewShellTool(name string) *ShellTool {
	return &ShellTool{name: name, shell: "/bin/sh"}
}

// Name returns the tool's name.
func (t *ShellTool) Name() string { return t.name }

// Shell returns the shell binary tasks of this tool run under.
func (t *ShellTool) Shell() string { return t.shell }

// ConfigureAttribute applies a tool attribute. The only recognized
// attribute is shell, the shell binary to use.
func (t *ShellTool) ConfigureAttribute(key, value string) bool {
	if key != "shell" {
		return false
	}
	t.shell = value
	return true
}

// CreateTask creates a shell task bound to this tool.
func (t *ShellTool) CreateTask(name string) buildfile.Task {
	return &ShellTask{taskBase: taskBase{name: name, tool: t.name}}
}

// PhonyTool creates grouping no-op tasks.
type PhonyTool struct {
	name string
}

// NewPhonyTool creates a phony tool.
func NewPhonyTool(name string) *PhonyTool {
	return &PhonyTool{name: name}
}

// Name returns the tool's name.
func (t *PhonyTool) Name() string { return t.name }

// ConfigureAttribute rejects every attribute; phony tools carry no
// configuration.
func (t *PhonyTool) ConfigureAttribute(key, value string) bool { return false }

// CreateTask creates a phony task bound to this tool.
func (t *PhonyTool) CreateTask(name string) buildfile.Task {
	return &PhonyTask{taskBase: taskBase{name: name, tool: t.name}}
}

// MkdirTool creates tasks that create their output directories.
type MkdirTool struct {
	name string
}

// NewMkdirTool creates a mkdir tool.
func NewMkdirTool(name string) *MkdirTool {
	return &MkdirTool{name: name}
}

// Name returns the tool's name.
func (t *MkdirTool) Name() string { return t.name }

// ConfigureAttribute rejects every attribute.
func (t *MkdirTool) ConfigureAttribute(key, value string) bool { return false }

// CreateTask creates a mkdir task bound to this tool.
func (t *MkdirTool) CreateTask(name string) buildfile.Task {
	return &MkdirTask{taskBase: taskBase{name: name, tool: t.name}}
}
