package graph

import (
	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/nodetype"
)

// GetOrCreateLocal returns the existing local declaration by name, or
// declares a new one of the given type (spec.md §4.4.3). The returned
// bool reports whether a new declaration was created; an existing
// local's type is never changed by this call.
func (f *GraphFunction) GetOrCreateLocal(name string, typ datatype.DataType) (datatype.NamedDataType, bool) {
	for _, l := range f.locals {
		if l.Name == name {
			return l, false
		}
	}
	local := datatype.NamedDataType{Name: name, Type: typ}
	f.locals = append(f.locals, local)
	return local, true
}

func (f *GraphFunction) localIndex(name string) int {
	for i, l := range f.locals {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// localRefNodes returns every node in f whose NodeType is a LocalGet
// or LocalSet referencing varName in this function.
func (f *GraphFunction) localRefNodes(varName string) []*NodeInstance {
	var out []*NodeInstance
	for _, n := range f.nodes {
		ref, ok := n.typ.(nodetype.LocalRef)
		if ok && ref.LocalFunc() == f.name && ref.LocalVar() == varName {
			out = append(out, n)
		}
	}
	return out
}

// RemoveLocal removes the local declaration and every existing
// LocalGet/LocalSet node instance in this function that referenced it
// (spec.md §4.4.3). No-op if name is not declared.
func (f *GraphFunction) RemoveLocal(name string) {
	idx := f.localIndex(name)
	if idx == -1 {
		return
	}
	f.locals = append(f.locals[:idx], f.locals[idx+1:]...)
	for _, n := range f.localRefNodes(name) {
		f.RemoveNode(n)
	}
}

// RenameLocal renames a declared local and retypes (in place, same
// DataType, new qualified identity) every LocalGet/LocalSet node that
// referenced it. No-op if old is undeclared or new is already taken
// (spec.md §4.4.3).
func (f *GraphFunction) RenameLocal(oldName, newName string) {
	idx := f.localIndex(oldName)
	if idx == -1 || f.localIndex(newName) != -1 {
		return
	}
	typ := f.locals[idx].Type
	f.locals[idx].Name = newName
	for _, n := range f.localRefNodes(oldName) {
		f.retypeLocalRefNode(n, newName, typ)
	}
}

// retypeLocalRefNode replaces n's NodeType with a fresh LocalGet or
// LocalSet built from (newName, typ), preserving whether n was a
// getter or a setter.
func (f *GraphFunction) retypeLocalRefNode(n *NodeInstance, newName string, typ datatype.DataType) {
	if len(n.typ.ExecInputs()) == 0 {
		n.SetType(nodetype.NewLocalGet(f.module.FullName(), f.name, newName, typ))
	} else {
		n.SetType(nodetype.NewLocalSet(f.module.FullName(), f.name, newName, typ))
	}
}

// RetypeLocal retypes a declared local and replaces every referencing
// LocalGet/LocalSet node with a fresh NodeType reflecting the new
// type. Edges that no longer type-check are disconnected by
// NodeInstance.SetType (spec.md §4.4.3, §4.4.5).
func (f *GraphFunction) RetypeLocal(name string, newType datatype.DataType) {
	idx := f.localIndex(name)
	if idx == -1 {
		return
	}
	f.locals[idx].Type = newType
	for _, n := range f.localRefNodes(name) {
		f.retypeLocalRefNode(n, name, newType)
	}
}
