package nodetype

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// graphFuncCallNodeType is synthesized once per GraphFunction (spec.md
// §3.3's "GraphFuncCall"): placing it as a node lets one function call
// another. Its signature is a copy of the target function's declared
// I/O taken when the node type is built (GraphModule.NodeTypeFromName,
// spec.md §4.6); call-site nodes already placed keep that copy when
// the callee's I/O later changes.
type graphFuncCallNodeType struct {
	common
	targetModule string
	targetFunc   string
}

// NewGraphFuncCall builds a node type that calls the function
// identified by (targetModule, targetFunc), whose resolved signature
// is passed in directly by the graph package, which owns
// GraphFunction.
func NewGraphFuncCall(ownerModule, targetModule, targetFunc string, sig Signature) NodeType {
	return &graphFuncCallNodeType{
		common: common{
			moduleFullName: ownerModule,
			name:           "call." + targetFunc,
			description:    "calls " + targetModule + ":" + targetFunc,
			sig:            sig,
		},
		targetModule: targetModule,
		targetFunc:   targetFunc,
	}
}

func (n *graphFuncCallNodeType) Clone() NodeType {
	cp := *n
	cp.sig = n.cloneSignature()
	return &cp
}

func (n *graphFuncCallNodeType) ToJSON() (json.RawMessage, error) {
	return json.Marshal(map[string]any{
		"target_module":   n.targetModule,
		"target_function": n.targetFunc,
	})
}

// lookupFunc finds an already-declared IR function by name. The
// module-lowering pass (package compiler) always forward-declares
// every GraphFunction before lowering any of their bodies (spec.md
// §4.9), so this never has to create one.
func lookupFunc(m *ir.Module, name string) *ir.Func {
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Codegen implements the GraphFuncCall contract of spec.md §4.9:
// prepend the chosen exec input id, pass data inputs directly and data
// outputs via freshly allocated local cells, call, then switch the
// returned exec-output index over this node's own output blocks.
func (n *graphFuncCallNodeType) Codegen(p *CodegenParams) error {
	callee := lookupFunc(p.Module, MangleFuncName(n.targetModule, n.targetFunc))

	argc := len(n.sig.DataIn)
	dataArgs := p.DataInputs(argc)
	outPtrs := p.OutputPointers(argc)

	localCells := make([]value.Value, len(n.sig.DataOut))
	for i, o := range n.sig.DataOut {
		localCells[i] = p.CurrentBlock.NewAlloca(backendType(o.Type))
	}

	args := make([]value.Value, 0, 1+argc+len(localCells))
	args = append(args, constant.NewInt(types.I32, int64(p.ExecInputID)))
	args = append(args, dataArgs...)
	args = append(args, localCells...)
	ret := p.CurrentBlock.NewCall(callee, args...)

	for i, cell := range localCells {
		loaded := p.CurrentBlock.NewLoad(backendType(n.sig.DataOut[i].Type), cell)
		p.CurrentBlock.NewStore(loaded, outPtrs[i])
	}
	p.Track()

	switch len(p.OutputBlocks) {
	case 0:
		p.CurrentBlock.NewRet(ret)
	case 1:
		p.CurrentBlock.NewBr(p.OutputBlocks[0])
	default:
		cases := make([]*ir.Case, 0, len(p.OutputBlocks)-1)
		for i := 1; i < len(p.OutputBlocks); i++ {
			cases = append(cases, ir.NewCase(constant.NewInt(types.I32, int64(i)), p.OutputBlocks[i]))
		}
		p.CurrentBlock.NewSwitch(ret, p.OutputBlocks[0], cases...)
	}
	return nil
}
