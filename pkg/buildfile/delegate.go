package buildfile

// Delegate is the host-provided collaborator a BuildFile loads
// against. It supplies the tool and node factories, receives client
// configuration and load notifications, and is the sole sink for
// schema diagnostics.
//
// The interface performs double duty as factory and diagnostic
// consumer. A host may split those roles across two collaborators
// behind a small adapter without changing the parser's contract; the
// parser only ever invokes one method at a time and assumes no
// coupling between them.
type Delegate interface {
	// Error is called with the build file name and a human-readable
	// message for every schema violation. Loading stops at the first
	// violation, so within one load the method is called at most
	// once, but implementations must tolerate being a no-op sink.
	Error(file string, message string)

	// LookupTool resolves a tool type by name. A nil return means the
	// tool type is unrecognized, which aborts the load.
	LookupTool(name string) Tool

	// LookupNode creates the node for the given name. The call must
	// not fail; isImplicit is true when the first reference to the
	// name came from a task's inputs or outputs.
	LookupNode(name string, isImplicit bool) Node

	// ConfigureClient receives the client section: the reserved name
	// and version keys plus all remaining properties in declaration
	// order. A false return aborts the load.
	ConfigureClient(name string, version uint32, properties []Property) bool

	// LoadedTarget is called once per successfully parsed target,
	// before the target is stored. The target is read-only.
	LoadedTarget(name string, target *Target)

	// LoadedTask is called once per successfully parsed task, before
	// the task is stored.
	LoadedTask(name string, task Task)
}
