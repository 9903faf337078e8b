package graph

import (
	"encoding/json"
	"strings"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
	"github.com/flowlang/flc/result"
)

// GraphModule is a user-authored ChiModule (spec.md §3.6): a named
// collection of GraphFunctions and GraphStructs, loaded into a
// modreg.Context like any builtin module. Its NodeTypeFromName
// dynamically synthesizes GraphFuncCall/StructMake/StructBreak/
// LocalGet/LocalSet node types rather than storing them — they must
// always reflect the current shape of the function or struct they
// reference (spec.md §4.6).
type GraphModule struct {
	ctx       *modreg.Context
	fullName  string
	shortName string
	deps      map[string]struct{}

	functions map[string]*GraphFunction
	structs   map[string]*GraphStruct
}

// NewGraphModule constructs an empty module. ctx is used to resolve
// cross-module type and node-type references (e.g. a field typed with
// another loaded module's DataType); it may be nil until the module is
// actually loaded into a Context.
func NewGraphModule(ctx *modreg.Context, fullName, shortName string) *GraphModule {
	return &GraphModule{
		ctx:       ctx,
		fullName:  fullName,
		shortName: shortName,
		deps:      make(map[string]struct{}),
		functions: make(map[string]*GraphFunction),
		structs:   make(map[string]*GraphStruct),
	}
}

func (m *GraphModule) FullName() string                   { return m.fullName }
func (m *GraphModule) ShortName() string                  { return m.shortName }
func (m *GraphModule) Dependencies() map[string]struct{}  { return m.deps }

// AddDependency records that this module references types or node
// types from dep's full name (spec.md §3.6's dependency graph, walked
// by modreg.Context for cycle detection).
func (m *GraphModule) AddDependency(dep string) {
	m.deps[dep] = struct{}{}
}

// NewFunction declares a new, empty GraphFunction with an initial
// entry/exit pair (spec.md §3.4). Every function carries one default,
// unnamed exec path in addition to whatever named exec inputs/outputs
// are added later — without it a freshly created function's entry and
// exit nodes would have zero exec ports between them and could never
// be wired together at all. Returns nil if name is already taken.
func (m *GraphModule) NewFunction(name string) *GraphFunction {
	f := m.NewEmptyFunction(name)
	if f == nil {
		return nil
	}
	f.execIn = []string{""}
	f.execOut = []string{""}
	f.InsertNode(nodetype.NewEntry("lang", f.dataIn, f.execIn), 0, 0, nil)
	f.InsertNode(nodetype.NewExit("lang", f.dataOut, f.execOut), 200, 0, nil)
	return f
}

// NewEmptyFunction declares a function with no nodes at all, not even
// an entry/exit pair. Used by package chimod's loader, which
// reconstructs every node — including entry/exit — directly from a
// serialized document and would otherwise collide with auto-inserted
// ones. Returns nil if name is already taken.
func (m *GraphModule) NewEmptyFunction(name string) *GraphFunction {
	if _, exists := m.functions[name]; exists {
		return nil
	}
	f := newGraphFunction(m, name)
	m.functions[name] = f
	return f
}

// Function looks up a declared function by name.
func (m *GraphModule) Function(name string) (*GraphFunction, bool) {
	f, ok := m.functions[name]
	return f, ok
}

// Functions returns every declared function.
func (m *GraphModule) Functions() map[string]*GraphFunction { return m.functions }

// NewStruct declares a new GraphStruct with the given fields, in
// order. Returns nil if name is already taken.
func (m *GraphModule) NewStruct(name string, fields []datatype.NamedDataType) *GraphStruct {
	if _, exists := m.structs[name]; exists {
		return nil
	}
	s := newGraphStruct(m, name, fields)
	m.structs[name] = s
	return s
}

// Struct looks up a declared struct by name.
func (m *GraphModule) Struct(name string) (*GraphStruct, bool) {
	s, ok := m.structs[name]
	return s, ok
}

// TypeFromName implements modreg.ChiModule: the only types a
// GraphModule declares are its own GraphStructs.
func (m *GraphModule) TypeFromName(name string) (datatype.DataType, error) {
	s, ok := m.structs[name]
	if !ok {
		return datatype.DataType{}, result.Fail(result.CodeUnknownReference, "module %q has no type %q", m.fullName, name).Err()
	}
	return s.DataType(), nil
}

// TypeNames implements modreg.ChiModule.
func (m *GraphModule) TypeNames() []string {
	out := make([]string, 0, len(m.structs))
	for name := range m.structs {
		out = append(out, name)
	}
	return out
}

// NodeTypeNames implements modreg.ChiModule: one GraphFuncCall per
// function, one make/break pair per struct, and one get/set pair per
// local of every function.
func (m *GraphModule) NodeTypeNames() []string {
	var out []string
	for name := range m.functions {
		out = append(out, "call."+name)
	}
	for name := range m.structs {
		out = append(out, "make."+name, "break."+name)
	}
	for fname, f := range m.functions {
		for _, l := range f.Locals() {
			out = append(out, "get."+fname+"."+l.Name, "set."+fname+"."+l.Name)
		}
	}
	return out
}

// NodeTypeFromName implements modreg.ChiModule (spec.md §4.6):
// dispatches "call.<func>", "make.<struct>"/"break.<struct>", and
// "get.<func>.<local>"/"set.<func>.<local>" to freshly synthesized
// node types reflecting the referent's current shape. configJSON is
// unused — these synthesized types carry no independent configuration
// beyond what their referent already determines.
func (m *GraphModule) NodeTypeFromName(name string, configJSON json.RawMessage) (nodetype.NodeType, error) {
	switch {
	case strings.HasPrefix(name, "call."):
		return m.callNodeType(strings.TrimPrefix(name, "call."))
	case strings.HasPrefix(name, "make."):
		return m.makeNodeType(strings.TrimPrefix(name, "make."))
	case strings.HasPrefix(name, "break."):
		return m.breakNodeType(strings.TrimPrefix(name, "break."))
	case strings.HasPrefix(name, "get.") || strings.HasPrefix(name, "set."):
		return m.localNodeType(name)
	default:
		return nil, result.Fail(result.CodeUnknownReference, "module %q has no node type %q", m.fullName, name).Err()
	}
}

func (m *GraphModule) callNodeType(funcName string) (nodetype.NodeType, error) {
	f, ok := m.functions[funcName]
	if !ok {
		return nil, result.Fail(result.CodeUnknownReference, "module %q has no function %q", m.fullName, funcName).Err()
	}
	sig := nodetype.Signature{
		DataIn:  f.DataInputs(),
		DataOut: f.DataOutputs(),
		ExecIn:  f.ExecInputs(),
		ExecOut: f.ExecOutputs(),
	}
	return nodetype.NewGraphFuncCall(m.fullName, m.fullName, funcName, sig), nil
}

func (m *GraphModule) makeNodeType(structName string) (nodetype.NodeType, error) {
	s, ok := m.structs[structName]
	if !ok {
		return nil, result.Fail(result.CodeUnknownReference, "module %q has no struct %q", m.fullName, structName).Err()
	}
	return nodetype.NewStructMake(m.fullName, m.fullName+":"+structName, s.Fields(), s.DataType()), nil
}

func (m *GraphModule) breakNodeType(structName string) (nodetype.NodeType, error) {
	s, ok := m.structs[structName]
	if !ok {
		return nil, result.Fail(result.CodeUnknownReference, "module %q has no struct %q", m.fullName, structName).Err()
	}
	return nodetype.NewStructBreak(m.fullName, m.fullName+":"+structName, s.DataType(), s.Fields()), nil
}

// localNodeType parses "get.<func>.<local>" / "set.<func>.<local>" and
// synthesizes the matching node type. Function and local names may not
// themselves contain '.', matching every other dotted-name convention
// in this backend (e.g. MangleFuncName).
func (m *GraphModule) localNodeType(name string) (nodetype.NodeType, error) {
	parts := strings.SplitN(name, ".", 3)
	if len(parts) != 3 {
		return nil, result.Fail(result.CodeUnknownReference, "malformed local node type name %q", name).Err()
	}
	kind, funcName, varName := parts[0], parts[1], parts[2]
	f, ok := m.functions[funcName]
	if !ok {
		return nil, result.Fail(result.CodeUnknownReference, "module %q has no function %q", m.fullName, funcName).Err()
	}
	idx := f.localIndex(varName)
	if idx == -1 {
		return nil, result.Fail(result.CodeUnknownReference, "function %q has no local %q", funcName, varName).Err()
	}
	typ := f.locals[idx].Type
	if kind == "get" {
		return nodetype.NewLocalGet(m.fullName, funcName, varName, typ), nil
	}
	return nodetype.NewLocalSet(m.fullName, funcName, varName, typ), nil
}
