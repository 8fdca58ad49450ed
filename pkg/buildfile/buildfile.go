package buildfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mercator-hq/anvil/pkg/buildfile/diag"
)

// BuildFile loads a declarative build description and owns the
// resulting build graph: the set of tools, nodes, targets, and tasks
// the document declares.
//
// A BuildFile is single-use and single-threaded: construct one per
// document, call Load (or LoadBytes) exactly once, and read the
// accessors only after a successful load. After a failed load the
// registry content is partial and must not be used. Hosts loading
// several documents concurrently must use an independent BuildFile
// and Delegate per document.
type BuildFile struct {
	// filename names the main input file for diagnostics.
	filename string

	// delegate is the host collaborator for entity creation, client
	// configuration, load notifications, and error reporting.
	delegate Delegate

	// The four entity registries. Tools and nodes are created lazily
	// and deduplicated by name; targets and tasks are stored once per
	// section entry, later duplicates overwriting earlier ones.
	tools   map[string]Tool
	nodes   map[string]Node
	targets map[string]*Target
	tasks   map[string]Task
}

// New creates a build file bound to the given input file and delegate.
func New(filename string, delegate Delegate) *BuildFile {
	return &BuildFile{
		filename: filename,
		delegate: delegate,
		tools:    make(map[string]Tool),
		nodes:    make(map[string]Node),
		targets:  make(map[string]*Target),
		tasks:    make(map[string]Task),
	}
}

// Delegate returns the delegate the build file was configured with.
func (b *BuildFile) Delegate() Delegate { return b.delegate }

// Filename returns the name of the main input file.
func (b *BuildFile) Filename() string { return b.filename }

// Load reads and parses the build file. It returns true and leaves
// the registries fully populated on success, or reports at least one
// error through the delegate and returns false.
func (b *BuildFile) Load() bool {
	data, err := os.ReadFile(b.filename)
	if err != nil {
		b.delegate.Error(b.filename,
			fmt.Sprintf("unable to open %q (%v)", b.filename, err))
		return false
	}
	return b.LoadBytes(data)
}

// LoadBytes parses a build description from memory. The filename
// passed to New is still used for diagnostics.
func (b *BuildFile) LoadBytes(data []byte) bool {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			b.delegate.Error(b.filename, "missing document in stream")
		} else {
			b.delegate.Error(b.filename,
				fmt.Sprintf("invalid document in stream: %v", err))
		}
		return false
	}

	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			b.delegate.Error(b.filename, "missing document in stream")
			return false
		}
		root = doc.Content[0]
	}

	if !b.parseRootNode(root) {
		return false
	}

	// The stream must contain exactly one document.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		b.delegate.Error(b.filename, "unexpected additional document in stream")
		return false
	}

	return true
}

// Tools returns the tool registry. The returned map must not be
// modified and is only meaningful after a successful load.
func (b *BuildFile) Tools() map[string]Tool { return b.tools }

// Nodes returns the node registry. The returned map must not be
// modified and is only meaningful after a successful load.
func (b *BuildFile) Nodes() map[string]Node { return b.nodes }

// Targets returns the target registry. The returned map must not be
// modified and is only meaningful after a successful load.
func (b *BuildFile) Targets() map[string]*Target { return b.targets }

// Tasks returns the task registry. The returned map must not be
// modified and is only meaningful after a successful load.
func (b *BuildFile) Tasks() map[string]Task { return b.tasks }

// errorAt reports a schema violation anchored to the given document
// node through the delegate's error sink.
func (b *BuildFile) errorAt(node *yaml.Node, message string) {
	loc := diag.Location{File: b.filename}
	if node != nil {
		loc.Line = node.Line
		loc.Column = node.Column
	}
	b.delegate.Error(b.filename, loc.Annotate(message))
}
