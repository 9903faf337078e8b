package nodetype

import (
	"encoding/json"
	"strings"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/flowlang/flc/datatype"
)

// Struct-typed DataTypes are represented throughout this backend as a
// pointer to the underlying LLVM struct type, never as the bare
// aggregate — every struct value in IOValues, every output cell, and
// every local variable slot of struct type already holds that pointer.
// This keeps StructMake/StructBreak/locals codegen uniform with
// scalar-typed codegen (always "a value of the declared IR type") at
// the cost of one extra indirection, which this toy backend does not
// need to optimize away.

func structElemType(d datatype.DataType) *types.StructType {
	ptr := backendType(d).(*types.PointerType)
	return ptr.ElemType.(*types.StructType)
}

// structMakeNodeType is synthesized once per GraphStruct (spec.md
// §3.3): a pure node with one data input per field and a single data
// output of the struct type, populating a struct value field by
// field.
type structMakeNodeType struct {
	common
	structQualifiedName string
}

// NewStructMake builds a StructMake node type for the struct
// identified by structQualifiedName, with fields given in declared
// order and outType the struct's own (pointer-represented) DataType.
func NewStructMake(ownerModule, structQualifiedName string, fields []datatype.NamedDataType, outType datatype.DataType) NodeType {
	return &structMakeNodeType{
		common: common{
			moduleFullName: ownerModule,
			name:           "make." + strings.TrimPrefix(structQualifiedName, ownerModule+":"),
			description:    "constructs a " + structQualifiedName + " value from its fields",
			sig: Signature{
				DataIn:  fields,
				DataOut: []datatype.NamedDataType{{Name: "value", Type: outType}},
			},
		},
		structQualifiedName: structQualifiedName,
	}
}

func (n *structMakeNodeType) Clone() NodeType {
	cp := *n
	cp.sig = n.cloneSignature()
	return &cp
}

func (n *structMakeNodeType) ToJSON() (json.RawMessage, error) {
	return json.Marshal(map[string]any{"struct": n.structQualifiedName})
}

func (n *structMakeNodeType) Codegen(p *CodegenParams) error {
	argc := len(n.sig.DataIn)
	fieldVals := p.DataInputs(argc)
	outCell := p.OutputPointers(argc)[0]
	structType := structElemType(n.sig.DataOut[0].Type)

	structPtr := p.CurrentBlock.NewAlloca(structType)
	zero := constant.NewInt(types.I32, 0)
	for i, v := range fieldVals {
		idx := constant.NewInt(types.I32, int64(i))
		fieldPtr := p.CurrentBlock.NewGetElementPtr(structType, structPtr, zero, idx)
		p.CurrentBlock.NewStore(v, fieldPtr)
	}
	p.CurrentBlock.NewStore(structPtr, outCell)
	p.Track()
	return nil
}

// structBreakNodeType is the inverse of StructMake: a pure node with
// one data input (the struct) and one data output per field.
type structBreakNodeType struct {
	common
	structQualifiedName string
}

// NewStructBreak builds a StructBreak node type.
func NewStructBreak(ownerModule, structQualifiedName string, inType datatype.DataType, fields []datatype.NamedDataType) NodeType {
	return &structBreakNodeType{
		common: common{
			moduleFullName: ownerModule,
			name:           "break." + strings.TrimPrefix(structQualifiedName, ownerModule+":"),
			description:    "decomposes a " + structQualifiedName + " value into its fields",
			sig: Signature{
				DataIn:  []datatype.NamedDataType{{Name: "value", Type: inType}},
				DataOut: fields,
			},
		},
		structQualifiedName: structQualifiedName,
	}
}

func (n *structBreakNodeType) Clone() NodeType {
	cp := *n
	cp.sig = n.cloneSignature()
	return &cp
}

func (n *structBreakNodeType) ToJSON() (json.RawMessage, error) {
	return json.Marshal(map[string]any{"struct": n.structQualifiedName})
}

func (n *structBreakNodeType) Codegen(p *CodegenParams) error {
	structPtr := p.IOValues[0]
	outPtrs := p.OutputPointers(1)
	structType := structElemType(n.sig.DataIn[0].Type)

	zero := constant.NewInt(types.I32, 0)
	for i, o := range n.sig.DataOut {
		idx := constant.NewInt(types.I32, int64(i))
		fieldPtr := p.CurrentBlock.NewGetElementPtr(structType, structPtr, zero, idx)
		loaded := p.CurrentBlock.NewLoad(backendType(o.Type), fieldPtr)
		p.CurrentBlock.NewStore(loaded, outPtrs[i])
	}
	p.Track()
	return nil
}
