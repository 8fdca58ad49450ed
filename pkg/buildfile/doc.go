// Package buildfile parses declarative build descriptions into an
// in-memory build graph of tools, nodes, targets, and tasks.
//
// A build description is a YAML document with a strict top-level
// shape: a mandatory client section followed, in fixed order, by
// optional tools, targets, nodes, and tasks sections. The parser
// validates the shape, resolves forward references between tasks and
// the tools/nodes they mention (creating entities on demand), and
// delegates all domain-specific construction and validation to a
// host-provided Delegate. It never interprets attribute values beyond
// string key/value pairs, does not execute builds, and performs no
// dependency-cycle analysis.
//
// # Basic Usage
//
//	import (
//	    "mercator-hq/anvil/pkg/buildfile"
//	    "mercator-hq/anvil/pkg/buildfile/builtin"
//	)
//
//	delegate := builtin.NewDelegate()
//	bf := buildfile.New("build.anvil", delegate)
//	if !bf.Load() {
//	    for _, d := range delegate.Diagnostics {
//	        fmt.Println(d.Error())
//	    }
//	    return
//	}
//	fmt.Println("tasks:", len(bf.Tasks()))
//
// # Entity resolution
//
// Tools and nodes are created lazily through the delegate and
// deduplicated by name: every reference to the same name within one
// load yields the same instance. Targets and tasks are constructed
// fresh per section entry; a later entry with the same name silently
// replaces the earlier one.
//
// Loading stops at the first schema violation. Diagnostics flow
// through the delegate's error sink and carry line:column positions
// from the offending document node.
//
// Subpackages:
//
//   - builtin: ready-made tools, nodes, and a collecting delegate
//   - diag: source locations and diagnostic values
package buildfile
