package modreg

import (
	"encoding/json"
	"fmt"

	"github.com/llir/llvm/ir/types"
	"github.com/tidwall/gjson"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/nodetype"
)

const langModuleName = "lang"

// typeHandle is the concrete nodetype.IRTypeHandle backing every
// DataType this module mints — lang's primitives and every GraphStruct
// lowered through package graph.
type typeHandle struct {
	s string
	t types.Type
}

func (h typeHandle) BackendTypeString() string { return h.s }
func (h typeHandle) IRType() types.Type        { return h.t }

// NewTypeHandle constructs an IRTypeHandle for an arbitrary llir/llvm
// type, used outside this package by the graph package when minting
// DataTypes for GraphStructs.
func NewTypeHandle(backendString string, t types.Type) nodetype.IRTypeHandle {
	return typeHandle{backendString, t}
}

// langModule is the builtin ChiModule every Context loads by default
// (spec.md §3.6, §4.1): "i32", "bool", "float", "string" types, and
// the control-flow/literal/string node types.
type langModule struct {
	self  ChiModule
	types map[string]datatype.DataType
}

func newLangModule() *langModule {
	m := &langModule{types: make(map[string]datatype.DataType)}
	self := selfRef{m}
	m.types["i32"] = datatype.New(self, "i32", typeHandle{"i32", types.I32})
	m.types["bool"] = datatype.New(self, "bool", typeHandle{"i1", types.I1})
	m.types["float"] = datatype.New(self, "float", typeHandle{"double", types.Double})
	m.types["string"] = datatype.New(self, "string", typeHandle{"i8*", nodetype.StringType})
	return m
}

// selfRef lets langModule's own DataTypes carry a datatype.ModuleRef
// back to the module without langModule itself needing to satisfy
// that narrower interface directly (kept separate so adding fields to
// ChiModule does not silently change DataType's ownership contract).
type selfRef struct{ m *langModule }

func (s selfRef) FullName() string { return s.m.FullName() }

func (m *langModule) FullName() string  { return langModuleName }
func (m *langModule) ShortName() string { return "lang" }
func (m *langModule) Dependencies() map[string]struct{} { return nil }

func (m *langModule) TypeNames() []string {
	names := make([]string, 0, len(m.types))
	for n := range m.types {
		names = append(names, n)
	}
	return names
}

func (m *langModule) TypeFromName(name string) (datatype.DataType, error) {
	d, ok := m.types[name]
	if !ok {
		return datatype.DataType{}, fmt.Errorf("modreg: lang has no type %q", name)
	}
	return d, nil
}

func (m *langModule) NodeTypeNames() []string {
	return []string{
		"entry", "exit", "if",
		"const-int", "const-bool", "const-float", "strliteral",
		"strcat", "strprintf",
	}
}

// NodeTypeFromName builds one of the builtin lang node types from its
// configuration JSON (spec.md §4.1). "entry"/"exit" configs carry the
// owning function's full signature (they are regenerated whenever the
// function's I/O changes — see package graph's updateEntries/
// updateExits); the literal nodes carry a single "value"; strprintf
// carries a "format" template.
func (m *langModule) NodeTypeFromName(name string, configJSON json.RawMessage) (nodetype.NodeType, error) {
	switch name {
	case "entry", "exit":
		cfg, err := nodetype.DecodePortConfig(configJSON)
		if err != nil {
			return nil, err
		}
		data := make([]datatype.NamedDataType, len(cfg.Data))
		for i, ref := range cfg.Data {
			dt, err := m.resolveTypeRef(ref.TypeRef)
			if err != nil {
				return nil, err
			}
			data[i] = datatype.NamedDataType{Name: ref.Name, Type: dt}
		}
		if name == "entry" {
			return nodetype.NewEntry(langModuleName, data, cfg.Exec), nil
		}
		return nodetype.NewExit(langModuleName, data, cfg.Exec), nil

	case "if":
		return nodetype.NewIf(langModuleName, m.types["bool"]), nil

	case "const-int":
		v := gjson.GetBytes(configJSON, "value").Int()
		return nodetype.NewConstInt(langModuleName, m.types["i32"], v), nil

	case "const-bool":
		v := gjson.GetBytes(configJSON, "value").Bool()
		return nodetype.NewConstBool(langModuleName, m.types["bool"], v), nil

	case "const-float":
		v := gjson.GetBytes(configJSON, "value").Float()
		return nodetype.NewConstFloat(langModuleName, m.types["float"], v), nil

	case "strliteral":
		v := gjson.GetBytes(configJSON, "value").String()
		return nodetype.NewStrLiteral(langModuleName, m.types["string"], v), nil

	case "strcat":
		return nodetype.NewStrCat(langModuleName, m.types["string"]), nil

	case "strprintf":
		format := gjson.GetBytes(configJSON, "format").String()
		return nodetype.NewStrPrintf(langModuleName, format, nil, m.types["string"])

	default:
		return nil, fmt.Errorf("modreg: lang has no node type %q", name)
	}
}

// resolveTypeRef resolves a bare local name against lang's own type
// table first (the overwhelmingly common case for entry/exit config,
// which almost always references lang primitives), falling back to a
// qualified "<module>:<name>" lookup handled by the owning Context.
// langModule does not hold a Context reference (it is constructed
// before one exists, in NewContext) so a cross-module entry/exit data
// port is resolved by Context.NodeTypeFromModule, which handles
// entry/exit itself, not through this path.
func (m *langModule) resolveTypeRef(ref string) (datatype.DataType, error) {
	mod, name := splitQualified(ref)
	if mod == langModuleName {
		return m.TypeFromName(name)
	}
	return datatype.DataType{}, fmt.Errorf("modreg: lang cannot resolve cross-module type ref %q outside a Context", ref)
}
