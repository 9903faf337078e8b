package nodetype

import (
	"github.com/llir/llvm/ir/types"

	"github.com/flowlang/flc/datatype"
)

// IRTypeHandle extends datatype.BackendHandle with the ability to hand
// back a concrete llir/llvm type. Every BackendHandle minted by the
// lang ChiModule (package modreg) and by package graph for
// GraphStructs (through modreg.NewTypeHandle) implements this; synthesized node types (GraphFuncCall, StructMake,
// locals) need it to allocate local output cells.
type IRTypeHandle interface {
	datatype.BackendHandle
	IRType() types.Type
}

// backendType extracts the llir/llvm type behind a DataType. Panics if
// d's backend handle was not minted through this implementation's own
// type system — which would itself be a programming error, since every
// DataType in this module is minted through modreg's type handles.
func backendType(d datatype.DataType) types.Type {
	return d.Backend().(IRTypeHandle).IRType()
}
