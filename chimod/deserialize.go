package chimod

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/result"
	"github.com/flowlang/flc/uuidx"
)

// Load parses a .chimod document and reconstructs a graph.GraphModule
// registered under fullName/shortName (spec.md §4.10). ctx resolves
// every cross-module and same-module type/node-type reference; the
// module is loaded into ctx as a side effect of a successful Load so
// nodes using this module's own node types (call./make./break./get./
// set.) resolve through ctx.NodeTypeFromModule. Struct fields typed
// with an earlier-declared struct of the same document resolve
// directly against the module being built.
//
// Types are processed in document order: a struct field referencing
// another struct of this same module must appear after that struct's
// own entry in "types" — forward references within one document are
// not supported (recorded as a judgment call in DESIGN.md).
func Load(ctx *modreg.Context, fullName, shortName string, raw json.RawMessage) (*graph.GraphModule, *result.Result) {
	r := result.New()
	r.Merge(ValidateEnvelope(raw))
	if !r.Success() {
		return nil, r
	}

	root := gjson.ParseBytes(raw)
	m := graph.NewGraphModule(ctx, fullName, shortName)

	for _, dep := range root.Get("dependencies").Array() {
		m.AddDependency(dep.String())
	}

	root.Get("types").ForEach(func(key, val gjson.Result) bool {
		loadType(ctx, m, key.String(), val, r)
		return true
	})

	if err := ctx.LoadModule(m); err != nil {
		r.Merge(result.Fail(result.CodeUnknownReference, "chimod: loading module %q: %v", fullName, err))
		return nil, r
	}

	for _, g := range root.Get("graphs").Array() {
		loadFunction(ctx, m, g, r)
	}

	return m, r
}

func resolveTypeRef(ctx *modreg.Context, m *graph.GraphModule, ref string) (datatype.DataType, error) {
	module, name := ref, ""
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		module, name = ref[:i], ref[i+1:]
	} else {
		module, name = "lang", ref
	}
	if module == m.FullName() {
		return m.TypeFromName(name)
	}
	return ctx.TypeFromModule(module, name)
}

func loadType(ctx *modreg.Context, m *graph.GraphModule, name string, val gjson.Result, r *result.Result) {
	if val.Get("type").String() != "struct" {
		r.AddEntry(result.CodeSchemaKind, "type "+name+" has unsupported kind", nil)
		return
	}
	var fields []datatype.NamedDataType
	for _, f := range val.Get("data").Array() {
		fieldName := f.Get("field").String()
		typeRef := f.Get("type").String()
		dt, err := resolveTypeRef(ctx, m, typeRef)
		if err != nil {
			r.AddEntry(result.CodeUnknownReference, "type "+name+" field "+fieldName+": "+err.Error(), nil)
			continue
		}
		fields = append(fields, datatype.NamedDataType{Name: fieldName, Type: dt})
	}
	if m.NewStruct(name, fields) == nil {
		r.AddEntry(result.CodeSchemaField, "duplicate type name "+name, nil)
	}
}

func loadFunction(ctx *modreg.Context, m *graph.GraphModule, g gjson.Result, r *result.Result) {
	name := g.Get("name").String()
	f := m.NewEmptyFunction(name)
	if f == nil {
		r.AddEntry(result.CodeSchemaField, "duplicate function name "+name, nil)
		return
	}
	f.SetDescription(g.Get("description").String())

	dataIn := loadPorts(ctx, m, g.Get("data_inputs"), r)
	dataOut := loadPorts(ctx, m, g.Get("data_outputs"), r)
	var execIn, execOut []string
	for _, e := range g.Get("exec_inputs").Array() {
		execIn = append(execIn, e.String())
	}
	for _, e := range g.Get("exec_outputs").Array() {
		execOut = append(execOut, e.String())
	}
	f.SetSignature(dataIn, dataOut, execIn, execOut)

	g.Get("local_variables").ForEach(func(key, val gjson.Result) bool {
		dt, err := resolveTypeRef(ctx, m, val.String())
		if err != nil {
			r.AddEntry(result.CodeUnknownReference, "local "+key.String()+": "+err.Error(), nil)
			return true
		}
		f.GetOrCreateLocal(key.String(), dt)
		return true
	})

	nodesByID := make(map[string]*graph.NodeInstance)
	g.Get("nodes").ForEach(func(key, val gjson.Result) bool {
		n := loadNode(ctx, m, f, key.String(), val, r)
		if n != nil {
			nodesByID[key.String()] = n
		}
		return true
	})

	for _, c := range g.Get("connections").Array() {
		loadConnection(nodesByID, c, r)
	}
}

func loadPorts(ctx *modreg.Context, m *graph.GraphModule, arr gjson.Result, r *result.Result) []datatype.NamedDataType {
	var out []datatype.NamedDataType
	for _, p := range arr.Array() {
		dt, err := resolveTypeRef(ctx, m, p.Get("type").String())
		if err != nil {
			r.AddEntry(result.CodeUnknownReference, "port "+p.Get("name").String()+": "+err.Error(), nil)
			continue
		}
		out = append(out, datatype.NamedDataType{Name: p.Get("name").String(), Type: dt})
	}
	return out
}

func loadNode(ctx *modreg.Context, m *graph.GraphModule, f *graph.GraphFunction, idStr string, val gjson.Result, r *result.Result) *graph.NodeInstance {
	id, err := uuidx.Parse(idStr)
	if err != nil {
		r.AddEntry(result.CodeSchemaNode, "node id "+idStr+" is not a valid uuid", nil)
		return nil
	}

	qualified := val.Get("type").String()
	module, localName := "lang", qualified
	if i := strings.IndexByte(qualified, ':'); i >= 0 {
		module, localName = qualified[:i], qualified[i+1:]
	}
	cfg := val.Get("data").Raw
	nt, err := ctx.NodeTypeFromModule(module, localName, []byte(cfg))
	if err != nil {
		r.AddEntry(result.CodeSchemaNode, "node "+idStr+" has unresolvable type "+qualified+": "+err.Error(), nil)
		return nil
	}

	loc := val.Get("location").Array()
	var x, y float64
	if len(loc) == 2 {
		x, y = loc[0].Float(), loc[1].Float()
	}

	n, insertResult := f.InsertNode(nt, x, y, &id)
	if !insertResult.Success() {
		r.Merge(insertResult)
		return nil
	}
	return n
}

func loadConnection(nodesByID map[string]*graph.NodeInstance, c gjson.Result, r *result.Result) {
	kind := c.Get("type").String()
	out := c.Get("output").Array()
	in := c.Get("input").Array()
	if len(out) != 2 || len(in) != 2 {
		r.AddEntry(result.CodeSchemaConnection, "malformed connection entry", nil)
		return
	}
	outNode, ok1 := nodesByID[out[0].String()]
	inNode, ok2 := nodesByID[in[0].String()]
	if !ok1 || !ok2 {
		r.AddEntry(result.CodeSchemaConnection, "connection references unknown node", nil)
		return
	}
	outSlot, inSlot := int(out[1].Int()), int(in[1].Int())

	switch kind {
	case "exec":
		r.Merge(graph.ConnectExec(outNode, outSlot, inNode, inSlot))
	case "data":
		r.Merge(graph.ConnectData(outNode, outSlot, inNode, inSlot))
	default:
		r.AddEntry(result.CodeSchemaConnection, "unknown connection type "+kind, nil)
	}
}
