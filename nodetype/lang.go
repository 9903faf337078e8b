package nodetype

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/flowlang/flc/datatype"
)

// PortRef is one decoded (name, qualified type name) pair from an
// entry/exit node's config JSON, before the owning ChiModule resolves
// the type reference into a real datatype.DataType.
type PortRef struct {
	Name    string
	TypeRef string
}

// PortConfig is the decoded shape of an entry or exit node's config
// (spec.md §4.1): an ordered data-port list plus an ordered exec-port
// list. Resolving TypeRef into a DataType is the caller's job —
// package nodetype has no Context to resolve against.
type PortConfig struct {
	Data []PortRef
	Exec []string
}

// DecodePortConfig parses an entry/exit config payload using gjson,
// tolerating a missing "exec" array (an entry/exit with zero exec
// ports, matching a pure GraphFunction).
func DecodePortConfig(raw []byte) (PortConfig, error) {
	if !gjson.ValidBytes(raw) {
		return PortConfig{}, fmt.Errorf("nodetype: invalid port config JSON")
	}
	root := gjson.ParseBytes(raw)
	var cfg PortConfig
	for _, d := range root.Get("data").Array() {
		cfg.Data = append(cfg.Data, PortRef{
			Name:    d.Get("name").String(),
			TypeRef: d.Get("type").String(),
		})
	}
	for _, e := range root.Get("exec").Array() {
		cfg.Exec = append(cfg.Exec, e.String())
	}
	return cfg, nil
}

func encodePortConfig(data []datatype.NamedDataType, exec []string) (json.RawMessage, error) {
	raw := []byte("{}")
	var err error
	raw, err = sjson.SetBytes(raw, "data", []any{})
	if err != nil {
		return nil, err
	}
	for i, d := range data {
		raw, err = sjson.SetBytes(raw, fmt.Sprintf("data.%d.name", i), d.Name)
		if err != nil {
			return nil, err
		}
		raw, err = sjson.SetBytes(raw, fmt.Sprintf("data.%d.type", i), d.Type.QualifiedName())
		if err != nil {
			return nil, err
		}
	}
	raw, err = sjson.SetBytes(raw, "exec", exec)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// entryNodeType is the lang:entry node type (spec.md §4.1). Its data
// outputs mirror the owning GraphFunction's data inputs; its exec
// outputs mirror the function's exec inputs.
type entryNodeType struct{ common }

// NewEntry builds a lang:entry node type from an already-resolved
// signature (spec.md §4.1, §4.6 updateEntries).
func NewEntry(moduleFullName string, dataOut []datatype.NamedDataType, execOut []string) NodeType {
	return &entryNodeType{common{
		moduleFullName: moduleFullName,
		name:           "entry",
		description:    "function entry point: emits the function's arguments and begins execution",
		sig:            Signature{DataOut: dataOut, ExecOut: execOut},
	}}
}

func (n *entryNodeType) Clone() NodeType {
	return &entryNodeType{common{n.moduleFullName, n.name, n.description, n.cloneSignature()}}
}

func (n *entryNodeType) ToJSON() (json.RawMessage, error) {
	return encodePortConfig(n.sig.DataOut, n.sig.ExecOut)
}

// Codegen for entry stores each of the function's formal parameters
// (after the leading exec_input_id parameter, spec.md §4.8) into the
// corresponding output cell, then branches into the single exec
// output matching ExecInputID.
func (n *entryNodeType) Codegen(p *CodegenParams) error {
	args := p.Func.Params[1 : 1+len(n.sig.DataOut)]
	for i, outPtr := range p.IOValues {
		p.CurrentBlock.NewStore(args[i], outPtr)
	}
	p.Track()
	p.CurrentBlock.NewBr(p.OutputBlocks[p.ExecInputID])
	return nil
}

// exitNodeType is the lang:exit node type. Its data inputs mirror the
// owning GraphFunction's data outputs; its exec inputs mirror the
// function's exec outputs, one per possible "return path".
type exitNodeType struct{ common }

// NewExit builds a lang:exit node type.
func NewExit(moduleFullName string, dataIn []datatype.NamedDataType, execIn []string) NodeType {
	return &exitNodeType{common{
		moduleFullName: moduleFullName,
		name:           "exit",
		description:    "function exit point: returns control and the function's declared data outputs",
		sig:            Signature{DataIn: dataIn, ExecIn: execIn},
	}}
}

func (n *exitNodeType) Clone() NodeType {
	return &exitNodeType{common{n.moduleFullName, n.name, n.description, n.cloneSignature()}}
}

func (n *exitNodeType) ToJSON() (json.RawMessage, error) {
	return encodePortConfig(n.sig.DataIn, n.sig.ExecIn)
}

// Codegen for exit stores each data input into the caller-provided
// output-pointer parameters (the trailing parameters after
// exec_input_id and the data inputs) and returns the exec input index
// that was entered, matching the function signature of spec.md §4.8.
func (n *exitNodeType) Codegen(p *CodegenParams) error {
	outParams := p.Func.Params[1+len(n.sig.DataIn):]
	for i, v := range p.IOValues {
		p.CurrentBlock.NewStore(v, outParams[i])
	}
	p.Track()
	p.CurrentBlock.NewRet(constant.NewInt(types.I32, int64(p.ExecInputID)))
	return nil
}

// ifNodeType is the lang:if builtin: one bool data input, two exec
// outputs ("true", "false"), no data outputs.
type ifNodeType struct{ common }

// NewIf builds a lang:if node type, given the already-resolved bool
// DataType.
func NewIf(moduleFullName string, boolType datatype.DataType) NodeType {
	return &ifNodeType{common{
		moduleFullName: moduleFullName,
		name:           "if",
		description:    "branches execution on a boolean condition",
		sig: Signature{
			DataIn:  []datatype.NamedDataType{{Name: "condition", Type: boolType}},
			ExecIn:  []string{"in"},
			ExecOut: []string{"true", "false"},
		},
	}}
}

func (n *ifNodeType) Clone() NodeType {
	return &ifNodeType{common{n.moduleFullName, n.name, n.description, n.cloneSignature()}}
}

func (n *ifNodeType) ToJSON() (json.RawMessage, error) { return json.RawMessage("{}"), nil }

func (n *ifNodeType) Codegen(p *CodegenParams) error {
	cond := p.IOValues[0]
	p.Track()
	p.CurrentBlock.NewCondBr(cond, p.OutputBlocks[0], p.OutputBlocks[1])
	return nil
}

// literalNodeType backs the three const-* builtins and strliteral: a pure node with no
// inputs and a single "value" data output equal to a literal baked
// into the node's configuration.
type literalNodeType struct {
	common
	kind    string // "int", "bool", "float", "string"
	intLit  int64
	boolLit bool
	fltLit  float64
	strLit  string
}

// NewConstInt builds a lang:const-int node type.
func NewConstInt(moduleFullName string, outType datatype.DataType, v int64) NodeType {
	return &literalNodeType{
		common: common{moduleFullName, "const-int", "a constant 32-bit integer",
			Signature{DataOut: []datatype.NamedDataType{{Name: "value", Type: outType}}}},
		kind: "int", intLit: v,
	}
}

// NewConstBool builds a lang:const-bool node type.
func NewConstBool(moduleFullName string, outType datatype.DataType, v bool) NodeType {
	return &literalNodeType{
		common: common{moduleFullName, "const-bool", "a constant boolean",
			Signature{DataOut: []datatype.NamedDataType{{Name: "value", Type: outType}}}},
		kind: "bool", boolLit: v,
	}
}

// NewConstFloat builds a lang:const-float node type.
func NewConstFloat(moduleFullName string, outType datatype.DataType, v float64) NodeType {
	return &literalNodeType{
		common: common{moduleFullName, "const-float", "a constant double-precision float",
			Signature{DataOut: []datatype.NamedDataType{{Name: "value", Type: outType}}}},
		kind: "float", fltLit: v,
	}
}

// NewStrLiteral builds a lang:strliteral node type.
func NewStrLiteral(moduleFullName string, outType datatype.DataType, v string) NodeType {
	return &literalNodeType{
		common: common{moduleFullName, "strliteral", "a constant string",
			Signature{DataOut: []datatype.NamedDataType{{Name: "value", Type: outType}}}},
		kind: "string", strLit: v,
	}
}

func (n *literalNodeType) Clone() NodeType {
	cp := *n
	cp.sig = n.cloneSignature()
	return &cp
}

func (n *literalNodeType) ToJSON() (json.RawMessage, error) {
	switch n.kind {
	case "int":
		return json.Marshal(map[string]any{"value": n.intLit})
	case "bool":
		return json.Marshal(map[string]any{"value": n.boolLit})
	case "float":
		return json.Marshal(map[string]any{"value": n.fltLit})
	default:
		return json.Marshal(map[string]any{"value": n.strLit})
	}
}

// Codegen stores the configured literal straight into the node's
// single output cell; there is no current-block/output-block dance
// since literal nodes are pure.
func (n *literalNodeType) Codegen(p *CodegenParams) error {
	var c constant.Constant
	switch n.kind {
	case "int":
		c = constant.NewInt(types.I32, n.intLit)
	case "bool":
		if n.boolLit {
			c = constant.True
		} else {
			c = constant.False
		}
	case "float":
		c = constant.NewFloat(types.Double, n.fltLit)
	case "string":
		c = globalCString(p.Module, "str."+p.Location.NodeID, n.strLit)
	}
	p.CurrentBlock.NewStore(c, p.IOValues[0])
	p.Track()
	return nil
}

// strcatNodeType is the supplemented lang:strcat builtin: two string
// data inputs, one string data output, pure. Lowered as a call into
// the runtime's rt_strcat helper.
type strcatNodeType struct{ common }

// NewStrCat builds a lang:strcat node type.
func NewStrCat(moduleFullName string, stringType datatype.DataType) NodeType {
	return &strcatNodeType{common{
		moduleFullName: moduleFullName,
		name:           "strcat",
		description:    "concatenates two strings",
		sig: Signature{
			DataIn: []datatype.NamedDataType{
				{Name: "a", Type: stringType},
				{Name: "b", Type: stringType},
			},
			DataOut: []datatype.NamedDataType{{Name: "value", Type: stringType}},
		},
	}}
}

func (n *strcatNodeType) Clone() NodeType {
	return &strcatNodeType{common{n.moduleFullName, n.name, n.description, n.cloneSignature()}}
}

func (n *strcatNodeType) ToJSON() (json.RawMessage, error) { return json.RawMessage("{}"), nil }

func (n *strcatNodeType) Codegen(p *CodegenParams) error {
	a := p.IOValues[0]
	b := p.IOValues[1]
	out := p.IOValues[2]
	fn := ensureRuntimeFunc(p.Module, "rt_strcat", StringType, StringType, StringType)
	result := p.CurrentBlock.NewCall(fn, a, b)
	p.CurrentBlock.NewStore(result, out)
	p.Track()
	return nil
}

// strprintfNodeType is the supplemented lang:strprintf builtin: a
// configured literal template containing "{}" placeholders, with one
// string data input per placeholder. Lowered as a chain of rt_strcat
// calls over the literal segments and argument values — sidesteps a
// true variadic printf call, which this backend does not need.
type strprintfNodeType struct {
	common
	segments []string // len(segments) == len(DataIn)+1
}

// NewStrPrintf builds a lang:strprintf node type. format's "{}"
// occurrences determine the arity: one "a0".."aN" string data input
// per placeholder, and the given argNames (if non-empty) are used as
// data-input names instead.
func NewStrPrintf(moduleFullName, format string, argNames []string, stringType datatype.DataType) (NodeType, error) {
	segments := strings.Split(format, "{}")
	arity := len(segments) - 1
	if len(argNames) != 0 && len(argNames) != arity {
		return nil, fmt.Errorf("nodetype: strprintf format has %d placeholders, got %d arg names", arity, len(argNames))
	}
	dataIn := make([]datatype.NamedDataType, arity)
	for i := range dataIn {
		name := fmt.Sprintf("a%d", i)
		if len(argNames) != 0 {
			name = argNames[i]
		}
		dataIn[i] = datatype.NamedDataType{Name: name, Type: stringType}
	}
	return &strprintfNodeType{
		common: common{moduleFullName, "strprintf", "interpolates strings into a literal template",
			Signature{DataIn: dataIn, DataOut: []datatype.NamedDataType{{Name: "value", Type: stringType}}}},
		segments: segments,
	}, nil
}

func (n *strprintfNodeType) Clone() NodeType {
	segs := make([]string, len(n.segments))
	copy(segs, n.segments)
	return &strprintfNodeType{common{n.moduleFullName, n.name, n.description, n.cloneSignature()}, segs}
}

func (n *strprintfNodeType) ToJSON() (json.RawMessage, error) {
	return json.Marshal(map[string]any{"format": strings.Join(n.segments, "{}")})
}

func (n *strprintfNodeType) Codegen(p *CodegenParams) error {
	fn := ensureRuntimeFunc(p.Module, "rt_strcat", StringType, StringType, StringType)
	argc := len(n.sig.DataIn)
	args := p.DataInputs(argc)
	out := p.OutputPointers(argc)[0]

	acc := value.Value(globalCString(p.Module, "fmt."+p.Location.NodeID+".0", n.segments[0]))
	for i := 0; i < argc; i++ {
		acc = p.CurrentBlock.NewCall(fn, acc, args[i])
		lit := globalCString(p.Module, fmt.Sprintf("fmt.%s.%d", p.Location.NodeID, i+1), n.segments[i+1])
		acc = p.CurrentBlock.NewCall(fn, acc, lit)
	}
	p.CurrentBlock.NewStore(acc, out)
	p.Track()
	return nil
}
