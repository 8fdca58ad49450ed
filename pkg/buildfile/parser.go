package buildfile

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// The document grammar is an ordered top-level mapping:
//
//	client:  { name: <string>, version: <uint>, <key>: <string>, ... }
//	tools:   { <toolName>: { <key>: <string>, ... }, ... }
//	targets: { <targetName>: [ <nodeName>, ... ], ... }
//	nodes:   { <nodeName>: { <key>: <string>, ... }, ... }
//	tasks:   { <taskName>: { tool: <toolName>, ... }, ... }
//
// client is mandatory and must come first; the remaining sections are
// optional but must appear in exactly this relative order.

const nullTag = "!!null"

// isScalar reports whether the node is a true scalar. YAML null is a
// scalar node tagged !!null and does not count; neither do aliases.
func isScalar(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag != nullTag
}

// isScalarString reports whether the node is a scalar with the given
// literal text.
func isScalarString(node *yaml.Node, text string) bool {
	return isScalar(node) && node.Value == text
}

// getOrCreateTool resolves a tool by name, asking the delegate to
// create it on first reference. The ref node anchors diagnostics.
func (b *BuildFile) getOrCreateTool(name string, ref *yaml.Node) Tool {
	// First, check the map.
	if tool, ok := b.tools[name]; ok {
		return tool
	}

	// Otherwise, ask the delegate to create the tool.
	tool := b.delegate.LookupTool(name)
	if tool == nil {
		b.errorAt(ref, fmt.Sprintf("invalid tool type %q", name))
		return nil
	}
	b.tools[name] = tool

	return tool
}

// getOrCreateNode resolves a node by name, asking the delegate to
// create it on first reference. The implicit flag only applies to
// the creating reference; it is never updated afterwards.
func (b *BuildFile) getOrCreateNode(name string, isImplicit bool) Node {
	if node, ok := b.nodes[name]; ok {
		return node
	}

	node := b.delegate.LookupNode(name, isImplicit)
	b.nodes[name] = node

	return node
}

// parseRootNode walks the top-level mapping section by section.
func (b *BuildFile) parseRootNode(root *yaml.Node) bool {
	// The root must always be a mapping.
	if root.Kind != yaml.MappingNode {
		b.errorAt(root, "unexpected top-level node (expected map)")
		return false
	}

	content := root.Content
	i := 0

	// The client section is mandatory and must come first.
	if i >= len(content) || !isScalarString(content[i], "client") {
		b.errorAt(root, "expected initial mapping key 'client'")
		return false
	}
	if content[i+1].Kind != yaml.MappingNode {
		b.errorAt(content[i+1], "unexpected 'client' value (expected map)")
		return false
	}
	if !b.parseClientMapping(content[i+1]) {
		return false
	}
	i += 2

	// Parse the tools mapping, if present.
	if i < len(content) && isScalarString(content[i], "tools") {
		if content[i+1].Kind != yaml.MappingNode {
			b.errorAt(content[i+1], "unexpected 'tools' value (expected map)")
			return false
		}
		if !b.parseToolsMapping(content[i+1]) {
			return false
		}
		i += 2
	}

	// Parse the targets mapping, if present.
	if i < len(content) && isScalarString(content[i], "targets") {
		if content[i+1].Kind != yaml.MappingNode {
			b.errorAt(content[i+1], "unexpected 'targets' value (expected map)")
			return false
		}
		if !b.parseTargetsMapping(content[i+1]) {
			return false
		}
		i += 2
	}

	// Parse the nodes mapping, if present.
	if i < len(content) && isScalarString(content[i], "nodes") {
		if content[i+1].Kind != yaml.MappingNode {
			b.errorAt(content[i+1], "unexpected 'nodes' value (expected map)")
			return false
		}
		if !b.parseNodesMapping(content[i+1]) {
			return false
		}
		i += 2
	}

	// Parse the tasks mapping, if present.
	if i < len(content) && isScalarString(content[i], "tasks") {
		if content[i+1].Kind != yaml.MappingNode {
			b.errorAt(content[i+1], "unexpected 'tasks' value (expected map)")
			return false
		}
		if !b.parseTasksMapping(content[i+1]) {
			return false
		}
		i += 2
	}

	// There shouldn't be any trailing sections.
	if i < len(content) {
		b.errorAt(content[i], "unexpected trailing top-level section")
		return false
	}

	return true
}

// parseClientMapping consumes the client section: scalar-only pairs
// with reserved name and version keys, everything else forwarded to
// the delegate as ordered properties.
func (b *BuildFile) parseClientMapping(m *yaml.Node) bool {
	var name string
	var version uint32
	var properties []Property

	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]

		// All keys and values must be scalar.
		if !isScalar(key) {
			b.errorAt(key, "invalid key type in 'client' map")
			return false
		}
		if !isScalar(value) {
			b.errorAt(value, "invalid value type in 'client' map")
			return false
		}

		switch key.Value {
		case "name":
			name = value.Value
		case "version":
			v, err := strconv.ParseUint(value.Value, 10, 32)
			if err != nil {
				b.errorAt(value, "invalid version number in 'client' map")
				return false
			}
			version = uint32(v)
		default:
			properties = append(properties, Property{Key: key.Value, Value: value.Value})
		}
	}

	// Pass to the delegate.
	if !b.delegate.ConfigureClient(name, version, properties) {
		b.errorAt(m, "unable to configure client")
		return false
	}

	return true
}

// parseToolsMapping consumes the tools section, resolving each tool
// through the delegate and applying its scalar attributes.
func (b *BuildFile) parseToolsMapping(m *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]

		// Every key must be scalar and every value a mapping.
		if !isScalar(key) {
			b.errorAt(key, "invalid key type in 'tools' map")
			return false
		}
		if value.Kind != yaml.MappingNode {
			b.errorAt(value, "invalid value type in 'tools' map")
			return false
		}

		tool := b.getOrCreateTool(key.Value, key)
		if tool == nil {
			return false
		}

		if !b.configureAttributes(value, "tools", tool.ConfigureAttribute) {
			return false
		}
	}

	return true
}

// configureAttributes walks a scalar-only attribute mapping and feeds
// each pair to the given configure callback. A false return from the
// callback is a fatal, delegate-reported error.
func (b *BuildFile) configureAttributes(m *yaml.Node, section string, configure func(key, value string) bool) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]

		// All keys and values must be scalar.
		if !isScalar(key) {
			b.errorAt(key, fmt.Sprintf("invalid key type in '%s' map", section))
			return false
		}
		if !isScalar(value) {
			b.errorAt(value, fmt.Sprintf("invalid value type in '%s' map", section))
			return false
		}

		if !configure(key.Value, value.Value) {
			b.errorAt(key, fmt.Sprintf("invalid attribute %q in '%s' map", key.Value, section))
			return false
		}
	}

	return true
}

// parseTargetsMapping consumes the targets section. Each entry is a
// sequence of scalar node names; names are not resolved here.
func (b *BuildFile) parseTargetsMapping(m *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]

		// Every key must be scalar and every value a sequence.
		if !isScalar(key) {
			b.errorAt(key, "invalid key type in 'targets' map")
			return false
		}
		if value.Kind != yaml.SequenceNode {
			b.errorAt(value, "invalid value type in 'targets' map")
			return false
		}

		target := NewTarget(key.Value)

		for _, item := range value.Content {
			// All items must be scalar.
			if !isScalar(item) {
				b.errorAt(item, "invalid node type in 'targets' map")
				return false
			}
			target.addNodeName(item.Value)
		}

		// Let the delegate know we loaded a target.
		b.delegate.LoadedTarget(target.Name(), target)

		// Later entries with the same name silently overwrite.
		b.targets[target.Name()] = target
	}

	return true
}

// parseNodesMapping consumes the nodes section. A node declared here
// is explicit, but a prior implicit creation from a task reference
// wins: the shared instance keeps its original flag while the
// attributes still apply to it.
func (b *BuildFile) parseNodesMapping(m *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]

		// Every key must be scalar and every value a mapping.
		if !isScalar(key) {
			b.errorAt(key, "invalid key type in 'nodes' map")
			return false
		}
		if value.Kind != yaml.MappingNode {
			b.errorAt(value, "invalid value type in 'nodes' map")
			return false
		}

		node := b.getOrCreateNode(key.Value, false)

		if !b.configureAttributes(value, "nodes", node.ConfigureAttribute) {
			return false
		}
	}

	return true
}

// parseTasksMapping consumes the tasks section. Each task mapping
// must lead with the tool key; inputs and outputs are sequences of
// node names that create implicit nodes, and every other pair is a
// free-form scalar attribute.
func (b *BuildFile) parseTasksMapping(m *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]

		// Every key must be scalar and every value a mapping.
		if !isScalar(key) {
			b.errorAt(key, "invalid key type in 'tasks' map")
			return false
		}
		if value.Kind != yaml.MappingNode {
			b.errorAt(value, "invalid value type in 'tasks' map")
			return false
		}

		name := key.Value
		attrs := value.Content

		// The initial attribute must be the tool name.
		if len(attrs) == 0 {
			b.errorAt(value, "missing 'tool' key in 'task' map")
			return false
		}
		if !isScalarString(attrs[0], "tool") {
			b.errorAt(attrs[0], "expected 'tool' initial key in 'tasks' map")
			return false
		}
		if !isScalar(attrs[1]) {
			b.errorAt(attrs[1], "invalid 'tool' value type in 'tasks' map")
			return false
		}

		tool := b.getOrCreateTool(attrs[1].Value, attrs[1])
		if tool == nil {
			return false
		}

		task := tool.CreateTask(name)

		// Parse the remaining task attributes.
		for j := 2; j+1 < len(attrs); j += 2 {
			akey, avalue := attrs[j], attrs[j+1]

			switch {
			case isScalarString(akey, "inputs"):
				inputs, ok := b.parseTaskNodeList(avalue, "inputs")
				if !ok {
					return false
				}
				task.ConfigureInputs(inputs)

			case isScalarString(akey, "outputs"):
				outputs, ok := b.parseTaskNodeList(avalue, "outputs")
				if !ok {
					return false
				}
				task.ConfigureOutputs(outputs)

			default:
				// Otherwise, it should be a scalar key/value attribute.
				if !isScalar(akey) {
					b.errorAt(akey, "invalid key type in 'tasks' map")
					return false
				}
				if !isScalar(avalue) {
					b.errorAt(avalue, "invalid value type in 'tasks' map")
					return false
				}
				if !task.ConfigureAttribute(akey.Value, avalue.Value) {
					b.errorAt(akey, fmt.Sprintf("invalid attribute %q in 'tasks' map", akey.Value))
					return false
				}
			}
		}

		// Let the delegate know we loaded a task.
		b.delegate.LoadedTask(name, task)

		// Later entries with the same name silently overwrite.
		b.tasks[name] = task
	}

	return true
}

// parseTaskNodeList consumes an inputs or outputs sequence, creating
// the referenced nodes as implicit on first mention.
func (b *BuildFile) parseTaskNodeList(seq *yaml.Node, key string) ([]Node, bool) {
	if seq.Kind != yaml.SequenceNode {
		b.errorAt(seq, fmt.Sprintf("invalid value type for '%s' task key", key))
		return nil, false
	}

	nodes := make([]Node, 0, len(seq.Content))
	for _, item := range seq.Content {
		if !isScalar(item) {
			b.errorAt(item, fmt.Sprintf("invalid node type in '%s' task key", key))
			return nil, false
		}
		nodes = append(nodes, b.getOrCreateNode(item.Value, true))
	}

	return nodes, true
}
