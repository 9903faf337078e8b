package graph

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

// GraphStruct is a named record type with an ordered field list
// (spec.md §3.7): produces a backend struct handle, and a pair of
// synthesized StructMake/StructBreak node types the owning GraphModule
// exposes through NodeTypeFromName.
//
// Struct-typed values are represented throughout this backend as a
// pointer to the underlying LLVM struct (see nodetype's
// structElemType doc comment) — GraphStruct.dataType's backend handle
// is therefore minted over a pointer-to-struct IR type, not the bare
// struct type.
type GraphStruct struct {
	module   *GraphModule
	name     string
	fields   []datatype.NamedDataType
	dataType datatype.DataType
}

func newGraphStruct(module *GraphModule, name string, fields []datatype.NamedDataType) *GraphStruct {
	s := &GraphStruct{module: module, name: name}
	s.setFields(fields)
	return s
}

func (s *GraphStruct) Name() string                        { return s.name }
func (s *GraphStruct) Fields() []datatype.NamedDataType     { return append([]datatype.NamedDataType(nil), s.fields...) }
func (s *GraphStruct) DataType() datatype.DataType          { return s.dataType }
func (s *GraphStruct) QualifiedName() string                { return s.module.FullName() + ":" + s.name }

// setFields rebuilds the backend struct type and this GraphStruct's
// DataType from the current field list. Renaming or retyping a field
// regenerates the make/break node types (via the module's dynamic
// NodeTypeFromName dispatch) but deliberately does not patch nodes
// already instantiated against the old shape — resolved Open Question,
// see DESIGN.md.
func (s *GraphStruct) setFields(fields []datatype.NamedDataType) {
	s.fields = fields
	elemTypes := make([]types.Type, len(fields))
	for i, f := range fields {
		elemTypes[i] = fieldIRType(f.Type)
	}
	structType := types.NewStruct(elemTypes...)
	ptrType := types.NewPointer(structType)
	handle := modreg.NewTypeHandle(fmt.Sprintf("%s*", structType.String()), ptrType)
	s.dataType = datatype.New(structSelfRef{s}, s.name, handle)
}

// fieldIRType extracts a field's underlying llir/llvm type regardless
// of whether it is a lang primitive or another (pointer-represented)
// GraphStruct.
func fieldIRType(d datatype.DataType) types.Type {
	return d.Backend().(nodetype.IRTypeHandle).IRType()
}

// AddField inserts a field before index insertBefore, clipped to
// [0, len], and regenerates the struct's backend type.
func (s *GraphStruct) AddField(name string, typ datatype.DataType, insertBefore int) {
	s.setFields(insertNamed(s.fields, insertBefore, datatype.NamedDataType{Name: name, Type: typ}))
}

// RemoveField erases a field (no-op if out of range).
func (s *GraphStruct) RemoveField(idx int) {
	s.setFields(removeNamed(s.fields, idx))
}

// RenameField renames a field in place.
func (s *GraphStruct) RenameField(idx int, newName string) {
	if inRange(idx, len(s.fields)) {
		s.fields[idx].Name = newName
		s.setFields(s.fields)
	}
}

// RetypeField retypes a field in place.
func (s *GraphStruct) RetypeField(idx int, newType datatype.DataType) {
	if inRange(idx, len(s.fields)) {
		s.fields[idx].Type = newType
		s.setFields(s.fields)
	}
}

// structSelfRef lets a GraphStruct's DataType carry a ModuleRef back
// to the owning GraphModule without requiring GraphStruct itself to
// implement the (deliberately narrower) datatype.ModuleRef interface.
type structSelfRef struct{ s *GraphStruct }

func (r structSelfRef) FullName() string { return r.s.module.FullName() }
