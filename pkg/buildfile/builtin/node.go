package builtin

import "strconv"

// FileNode is the default node implementation: a named build artifact
// backed by a path on disk, or a virtual grouping name.
type FileNode struct {
	name      string
	implicit  bool
	virtual   bool
	directory bool
}

// NewFileNode creates a node for the given artifact name.
func NewFileNode(name string, isImplicit bool) *FileNode {
	return &FileNode{name: name, implicit: isImplicit}
}

// Name returns the artifact name.
func (n *FileNode) Name() string { return n.name }

// IsImplicit reports whether the node was first referenced from a
// task rather than declared in the nodes section.
func (n *FileNode) IsImplicit() bool { return n.implicit }

// IsVirtual reports whether the node names an abstract artifact with
// no backing file.
func (n *FileNode) IsVirtual() bool { return n.virtual }

// IsDirectory reports whether the node names a directory.
func (n *FileNode) IsDirectory() bool { return n.directory }

// ConfigureAttribute applies a node attribute. Recognized attributes
// are is-virtual and is-directory, both booleans.
func (n *FileNode) ConfigureAttribute(key, value string) bool {
	switch key {
	case "is-virtual":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		n.virtual = v
	case "is-directory":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		n.directory = v
	default:
		return false
	}
	return true
}
