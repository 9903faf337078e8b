package chimod

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/flowlang/flc/graph"
)

// Marshal renders m as a .chimod document (spec.md §4.10). Node order
// inside each graph's "nodes" map and the order of "connections" are
// both semantically insignificant per the round-trip requirement, but
// are emitted sorted by node id / a stable ordering here purely so two
// Marshal calls over an unchanged module produce byte-identical output
// (useful for compilecache's content hash).
func Marshal(m *graph.GraphModule) (json.RawMessage, error) {
	doc := map[string]any{
		"dependencies": sortedDependencies(m),
		"types":        marshalTypes(m),
		"graphs":       marshalGraphs(m),
	}
	return json.Marshal(doc)
}

func sortedDependencies(m *graph.GraphModule) []string {
	deps := m.Dependencies()
	out := make([]string, 0, len(deps))
	for d := range deps {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func marshalTypes(m *graph.GraphModule) map[string]any {
	out := make(map[string]any)
	for _, name := range m.TypeNames() {
		s, ok := m.Struct(name)
		if !ok {
			continue
		}
		data := make([]map[string]string, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			data = append(data, map[string]string{"field": f.Name, "type": f.Type.QualifiedName()})
		}
		out[name] = map[string]any{"type": "struct", "data": data}
	}
	return out
}

func marshalGraphs(m *graph.GraphModule) []any {
	var funcNames []string
	for name := range m.Functions() {
		funcNames = append(funcNames, name)
	}
	sort.Strings(funcNames)

	graphs := make([]any, 0, len(funcNames))
	for _, name := range funcNames {
		f, _ := m.Function(name)
		graphs = append(graphs, marshalFunction(f))
	}
	return graphs
}

func marshalPorts(ports []portPair) []map[string]string {
	out := make([]map[string]string, 0, len(ports))
	for _, p := range ports {
		out = append(out, map[string]string{"name": p.name, "type": p.typeRef})
	}
	return out
}

type portPair struct {
	name    string
	typeRef string
}

func marshalFunction(f *graph.GraphFunction) map[string]any {
	dataIn := make([]portPair, 0, len(f.DataInputs()))
	for _, d := range f.DataInputs() {
		dataIn = append(dataIn, portPair{d.Name, d.Type.QualifiedName()})
	}
	dataOut := make([]portPair, 0, len(f.DataOutputs()))
	for _, d := range f.DataOutputs() {
		dataOut = append(dataOut, portPair{d.Name, d.Type.QualifiedName()})
	}

	locals := make(map[string]string)
	for _, l := range f.Locals() {
		locals[l.Name] = l.Type.QualifiedName()
	}

	nodes := make(map[string]any)
	nodeList := f.Nodes()
	sort.Slice(nodeList, func(i, j int) bool { return nodeList[i].ID().String() < nodeList[j].ID().String() })
	for _, n := range nodeList {
		cfg, err := n.Type().ToJSON()
		if err != nil {
			cfg = json.RawMessage("{}")
		}
		var decoded any
		_ = json.Unmarshal(cfg, &decoded)
		nodes[n.ID().String()] = map[string]any{
			"type":     n.Type().QualifiedName(),
			"location": []float64{n.X(), n.Y()},
			"data":     decoded,
		}
	}

	return map[string]any{
		"type":            "function",
		"name":            f.Name(),
		"description":     f.Description(),
		"data_inputs":     marshalPorts(dataIn),
		"data_outputs":    marshalPorts(dataOut),
		"exec_inputs":     f.ExecInputs(),
		"exec_outputs":    f.ExecOutputs(),
		"local_variables": locals,
		"nodes":           nodes,
		"connections":     marshalConnections(nodeList),
	}
}

// marshalConnections walks every node's output slots exactly once
// (exec outputs fan out to at most one target, data outputs to many)
// so each edge is emitted a single time rather than once per endpoint.
func marshalConnections(nodeList []*graph.NodeInstance) []any {
	var out []any
	for _, n := range nodeList {
		for i := range n.Type().ExecOutputs() {
			target, slot, ok := n.OutputExecTarget(i)
			if !ok {
				continue
			}
			out = append(out, map[string]any{
				"type":   "exec",
				"output": []any{n.ID().String(), i},
				"input":  []any{target.ID().String(), slot},
			})
		}
		for i := range n.Type().DataOutputs() {
			for _, t := range n.OutputDataTargets(i) {
				out = append(out, map[string]any{
					"type":   "data",
					"output": []any{n.ID().String(), i},
					"input":  []any{t.Node.ID().String(), t.Slot},
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return out
}
