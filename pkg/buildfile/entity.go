package buildfile

// Property is a single key/value pair from the client section,
// forwarded to the delegate in declaration order.
type Property struct {
	Key   string
	Value string
}

// Tool is a pluggable, named behavior object that creates tasks and
// accepts string attributes. Concrete tools are supplied by the
// delegate; the parser only ever calls through this interface.
type Tool interface {
	// Name returns the tool's unique name.
	Name() string

	// ConfigureAttribute applies a single string attribute. A false
	// return marks the attribute as unrecognized or invalid, which
	// aborts the load.
	ConfigureAttribute(key, value string) bool

	// CreateTask creates a new task of this tool's kind.
	CreateTask(name string) Task
}

// Node is a named reference to a build artifact, typically a file.
// At most one Node instance exists per name within a single load;
// every task and section that mentions the name shares it.
type Node interface {
	// Name returns the node's unique name.
	Name() string

	// IsImplicit reports whether the node was first referenced from a
	// task's inputs or outputs rather than declared in the nodes
	// section. The flag is fixed at creation and never updated.
	IsImplicit() bool

	// ConfigureAttribute applies a single string attribute. A false
	// return aborts the load.
	ConfigureAttribute(key, value string) bool
}

// Task is a single build action bound to exactly one tool, with
// ordered input/output node references and free-form string
// attributes.
type Task interface {
	// Name returns the task's name.
	Name() string

	// ConfigureInputs installs the ordered list of input nodes.
	ConfigureInputs(inputs []Node)

	// ConfigureOutputs installs the ordered list of output nodes.
	ConfigureOutputs(outputs []Node)

	// ConfigureAttribute applies a single string attribute. A false
	// return aborts the load.
	ConfigureAttribute(key, value string) bool
}

// TaskInfo is an optional introspection interface for tasks that can
// report their configured state. Consumers that render or persist the
// build graph (the graph dump, the snapshot database) type-assert for
// it; the parser itself never uses it.
type TaskInfo interface {
	Task

	// ToolName returns the name of the tool the task is bound to.
	ToolName() string

	// Inputs returns the configured input nodes in declaration order.
	Inputs() []Node

	// Outputs returns the configured output nodes in declaration order.
	Outputs() []Node

	// Attributes returns the configured free-form attributes in
	// declaration order.
	Attributes() []Property
}

// Target is a named, ordered grouping of node names representing a
// user-facing build goal. Node names are not resolved here; a later
// phase outside this package binds them to nodes.
type Target struct {
	name      string
	nodeNames []string
}

// NewTarget creates an empty target with the given name.
func NewTarget(name string) *Target {
	return &Target{name: name}
}

// Name returns the target's name.
func (t *Target) Name() string { return t.name }

// NodeNames returns the target's node names in declaration order.
// Duplicates and unresolved names are allowed.
func (t *Target) NodeNames() []string { return t.nodeNames }

func (t *Target) addNodeName(name string) {
	t.nodeNames = append(t.nodeNames, name)
}
