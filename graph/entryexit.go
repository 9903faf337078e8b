package graph

import "github.com/flowlang/flc/nodetype"

// updateEntries replaces every lang:entry node's NodeType with a fresh
// one mirroring the function's current data inputs / exec inputs
// (spec.md §4.4.4 — the source of invariant I1, property P4).
func (f *GraphFunction) updateEntries() {
	fresh := nodetype.NewEntry("lang", f.dataIn, f.execIn)
	for _, n := range f.nodes {
		if n.typ.QualifiedName() == "lang:entry" {
			n.SetType(fresh)
		}
	}
}

// updateExits replaces every lang:exit node's NodeType with a fresh
// one mirroring the function's current data outputs / exec outputs
// (spec.md §4.4.4).
func (f *GraphFunction) updateExits() {
	for _, n := range f.nodes {
		if n.typ.QualifiedName() == "lang:exit" {
			n.SetType(nodetype.NewExit("lang", f.dataOut, f.execOut))
		}
	}
}
