// Package llvmgen lowers a single graph.GraphFunction into one
// backend IR function (spec.md §4.8/§4.9): the exec-order walk that
// turns a node graph into basic blocks, entry-block output cells, and
// the leading exec_input_id dispatch every compiled function shares.
package llvmgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/nodetype"
)

// irType extracts the backend type behind a DataType, the llvmgen
// equivalent of nodetype's own unexported backendType helper.
func irType(d datatype.DataType) types.Type {
	return d.Backend().(nodetype.IRTypeHandle).IRType()
}

// DeclareFunction builds f's IR function signature per spec.md §4.8:
// a leading i32 exec_input_id, then one parameter per declared data
// input, then one pointer parameter per declared data output, all
// returning i32 (the exec output index taken). It does not create any
// basic blocks — LowerBody fills the body in separately so every
// GraphFunction in a module can be forward-declared before any body is
// lowered (spec.md §4.9's two-pass module lowering).
func DeclareFunction(m *ir.Module, f *graph.GraphFunction, mangledName string) *ir.Func {
	params := make([]*ir.Param, 0, 1+len(f.DataInputs())+len(f.DataOutputs()))
	params = append(params, ir.NewParam("exec_input_id", types.I32))
	for _, in := range f.DataInputs() {
		params = append(params, ir.NewParam(in.Name, irType(in.Type)))
	}
	for _, out := range f.DataOutputs() {
		params = append(params, ir.NewParam(out.Name+".out", types.NewPointer(irType(out.Type))))
	}
	return m.NewFunc(mangledName, types.I32, params...)
}

func dataOutParamOffset(f *graph.GraphFunction) int {
	return 1 + len(f.DataInputs())
}

// paramName is used only for block/cell naming, to keep generated IR
// readable when inspected by hand.
func paramName(prefix string, i int) string {
	return fmt.Sprintf("%s.%d", prefix, i)
}
