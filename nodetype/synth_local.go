package nodetype

import (
	"encoding/json"

	"github.com/flowlang/flc/datatype"
)

// LocalRef is implemented by LocalGet/LocalSet node types so the graph
// package can find every node referencing a given local without a type
// switch over every NodeType variant (spec.md §4.4.3's removeLocal/
// renameLocal/retypeLocal, which must locate existing getter/setter
// nodes). FuncName+VarName identifies the local; local names are only
// unique within their owning function, so the bare variable name alone
// is not enough to disambiguate across a module with several functions.
type LocalRef interface {
	LocalFunc() string
	LocalVar() string
}

// localGetNodeType is synthesized once per GraphFunction local
// variable (spec.md §3.3, §4.5 getOrCreateLocal): a pure node with no
// inputs and a single data output reading the local's current value.
type localGetNodeType struct {
	common
	funcName string
	varName  string
}

// NewLocalGet builds a LocalGet node type for the named local.
// funcName disambiguates locals of the same varName across different
// functions in the same module.
func NewLocalGet(ownerModule, funcName, varName string, typ datatype.DataType) NodeType {
	return &localGetNodeType{
		common: common{
			moduleFullName: ownerModule,
			name:           "get." + funcName + "." + varName,
			description:    "reads local variable " + varName,
			sig:            Signature{DataOut: []datatype.NamedDataType{{Name: varName, Type: typ}}},
		},
		funcName: funcName,
		varName:  varName,
	}
}

func (n *localGetNodeType) LocalFunc() string { return n.funcName }
func (n *localGetNodeType) LocalVar() string  { return n.varName }

func (n *localGetNodeType) Clone() NodeType {
	cp := *n
	cp.sig = n.cloneSignature()
	return &cp
}

func (n *localGetNodeType) ToJSON() (json.RawMessage, error) {
	return json.Marshal(map[string]any{"function": n.funcName, "local": n.varName})
}

func (n *localGetNodeType) Codegen(p *CodegenParams) error {
	cell := p.Locals[n.varName]
	loaded := p.CurrentBlock.NewLoad(backendType(n.sig.DataOut[0].Type), cell)
	p.CurrentBlock.NewStore(loaded, p.IOValues[0])
	p.Track()
	return nil
}

// localSetNodeType is synthesized once per GraphFunction local
// variable: a non-pure node (assignment is a side effect, sequenced
// through the exec graph) with one data input and a single exec
// in/out pair.
type localSetNodeType struct {
	common
	funcName string
	varName  string
}

// NewLocalSet builds a LocalSet node type for the named local.
func NewLocalSet(ownerModule, funcName, varName string, typ datatype.DataType) NodeType {
	return &localSetNodeType{
		common: common{
			moduleFullName: ownerModule,
			name:           "set." + funcName + "." + varName,
			description:    "writes local variable " + varName,
			sig: Signature{
				DataIn:  []datatype.NamedDataType{{Name: "value", Type: typ}},
				ExecIn:  []string{"in"},
				ExecOut: []string{"out"},
			},
		},
		funcName: funcName,
		varName:  varName,
	}
}

func (n *localSetNodeType) LocalFunc() string { return n.funcName }
func (n *localSetNodeType) LocalVar() string  { return n.varName }

func (n *localSetNodeType) Clone() NodeType {
	cp := *n
	cp.sig = n.cloneSignature()
	return &cp
}

func (n *localSetNodeType) ToJSON() (json.RawMessage, error) {
	return json.Marshal(map[string]any{"function": n.funcName, "local": n.varName})
}

func (n *localSetNodeType) Codegen(p *CodegenParams) error {
	cell := p.Locals[n.varName]
	p.CurrentBlock.NewStore(p.IOValues[0], cell)
	p.Track()
	p.CurrentBlock.NewBr(p.OutputBlocks[0])
	return nil
}
